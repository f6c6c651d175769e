// internal/services/stats_service.go
package services

import (
	"sync"
	"time"
)

// UsageStats is a snapshot of the in-process conversation counters.
type UsageStats struct {
	SessionsCreated int            `json:"sessions_created"`
	TotalTurns      int            `json:"total_turns"`
	ScriptedReplies int            `json:"scripted_replies"`
	ScriptedMatches int            `json:"scripted_matches"`
	FallbackReplies int            `json:"fallback_replies"`
	ScriptsImported int            `json:"scripts_imported"`
	RuleHits        map[string]int `json:"rule_hits"`
	StartedAt       time.Time      `json:"started_at"`
	LastUpdated     time.Time      `json:"last_updated"`
}

// StatsService keeps lightweight in-process usage counters: turns handled,
// scripted versus fallback replies, and which responder rules fire. Counters
// reset on restart.
type StatsService struct {
	mutex sync.Mutex
	stats UsageStats
}

// NewStatsService creates the counter service.
func NewStatsService() *StatsService {
	return &StatsService{
		stats: UsageStats{
			RuleHits:  make(map[string]int),
			StartedAt: time.Now(),
		},
	}
}

// RecordSessionCreated counts a new chat session.
func (s *StatsService) RecordSessionCreated() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.stats.SessionsCreated++
	s.stats.LastUpdated = time.Now()
}

// RecordScriptedTurn counts a turn answered by the playback engine. matched
// distinguishes real pattern hits from the permissive free-response advance.
func (s *StatsService) RecordScriptedTurn(matched bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.stats.TotalTurns++
	s.stats.ScriptedReplies++
	if matched {
		s.stats.ScriptedMatches++
	}
	s.stats.LastUpdated = time.Now()
}

// RecordFallbackTurn counts a turn answered by the generic responder, tagged
// with the intent rule that fired.
func (s *StatsService) RecordFallbackTurn(rule string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.stats.TotalTurns++
	s.stats.FallbackReplies++
	if rule != "" {
		s.stats.RuleHits[rule]++
	}
	s.stats.LastUpdated = time.Now()
}

// RecordScriptImported counts an accepted script upload.
func (s *StatsService) RecordScriptImported() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.stats.ScriptsImported++
	s.stats.LastUpdated = time.Now()
}

// GetStats returns a copy of the counters.
func (s *StatsService) GetStats() UsageStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	snapshot := s.stats
	snapshot.RuleHits = make(map[string]int, len(s.stats.RuleHits))
	for rule, hits := range s.stats.RuleHits {
		snapshot.RuleHits[rule] = hits
	}
	return snapshot
}
