package orchestrator

// stats summarizes the invocation history. With recording disabled the
// result still succeeds and says so.
func (o *Orchestrator) stats() *Result {
	if o.history == nil {
		return &Result{Kind: ResultStats, Success: true, Stats: &StatsPayload{Disabled: true}}
	}
	s, err := o.history.Stats()
	if err != nil {
		o.log.Warnf("orchestrator: history stats: %v", err)
		return &Result{Kind: ResultStats, Success: true, Stats: &StatsPayload{Disabled: true}}
	}
	return &Result{Kind: ResultStats, Success: true, Stats: &StatsPayload{Stats: s}}
}
