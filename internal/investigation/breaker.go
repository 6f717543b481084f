package investigation

// DefaultFailureThreshold is how many unhandled agent failures mark an agent
// unhealthy within one investigation.
const DefaultFailureThreshold = 3

// RecordNodeFailure counts one unhandled failure inside an agent. Past the
// threshold the agent is marked unhealthy for the rest of this investigation.
// Pure bookkeeping: it never halts the investigation and never retries.
// There is no recovery transition; the next investigation starts fresh.
func (s *State) RecordNodeFailure(agent string, err error) {
	if agent == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failureCounts[agent]++
	if s.failureCounts[agent] >= s.failureThreshold {
		s.unhealthy[agent] = struct{}{}
	}
}

// FailureCount returns how many failures an agent has recorded.
func (s *State) FailureCount(agent string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failureCounts[agent]
}

// IsUnhealthy reports whether an agent crossed the failure threshold.
func (s *State) IsUnhealthy(agent string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.unhealthy[agent]
	return ok
}

// UnhealthyAgents lists agents marked unhealthy in this investigation.
func (s *State) UnhealthyAgents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.unhealthy))
	for a := range s.unhealthy {
		out = append(out, a)
	}
	return out
}
