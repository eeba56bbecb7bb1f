package session

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// maxRecentSessions caps the per-project most-recently-used list.
const maxRecentSessions = 5

// frameRecordType marks wire-frame transcript records in session JSONL.
const frameRecordType = "frame"

// Store manages session persistence under ~/.agentdeck. High-level
// accessors are best-effort: persistence failures never interrupt a live
// connection.
type Store struct {
	// BaseDir is the root for all persisted data.
	BaseDir string
	// projectHash scopes recency data to one workspace.
	projectHash string
}

// FrameRecord wraps one wire frame for transcript persistence. Frames are
// stored verbatim so a transcript can be replayed as identical JSON text.
type FrameRecord struct {
	// Type tags the record so loaders can filter it.
	Type string `json:"type"`
	// Direction is "in" for agent traffic, "out" for client traffic.
	Direction string `json:"direction"`
	// Frame holds the raw JSON frame without a trailing newline.
	Frame string `json:"frame"`
	// Timestamp is the capture time in RFC 3339 form.
	Timestamp string `json:"timestamp"`
}

// prefs holds persisted user preferences.
type prefs struct {
	// AutoNewSession controls automatic session creation after connect.
	AutoNewSession *bool `json:"autoNewSession,omitempty"`
}

// NewStore constructs a Store rooted in the default base directory, scoped
// to the given project directory.
func NewStore(projectDir string) (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	return &Store{
		BaseDir:     filepath.Join(home, ".agentdeck"),
		projectHash: ProjectHash(projectDir),
	}, nil
}

// ProjectHash returns a stable hash for a workspace path.
func ProjectHash(path string) string {
	clean := filepath.Clean(path)
	sum := sha256.Sum256([]byte(clean))
	return hex.EncodeToString(sum[:8])
}

// SessionPath returns the transcript JSONL path for a session.
func (s *Store) SessionPath(sessionID string) string {
	return filepath.Join(s.BaseDir, "sessions", sessionID+".jsonl")
}

// AppendEvent writes a JSONL event to the session transcript.
func (s *Store) AppendEvent(sessionID string, event any) error {
	if sessionID == "" {
		return errors.New("session id required")
	}
	path := s.SessionPath(sessionID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open session file: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal session event: %w", err)
	}

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write session event: %w", err)
	}

	return nil
}

// AppendFrame logs one wire frame to the session transcript. Best-effort;
// empty frames are skipped so blank lines do not pollute the log.
func (s *Store) AppendFrame(sessionID, direction, frame string) {
	trimmed := strings.TrimSpace(frame)
	if trimmed == "" || sessionID == "" {
		return
	}
	_ = s.AppendEvent(sessionID, FrameRecord{
		Type:      frameRecordType,
		Direction: direction,
		Frame:     trimmed,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// LoadEvents reads all JSONL events from a session transcript.
func (s *Store) LoadEvents(sessionID string) ([]json.RawMessage, error) {
	path := s.SessionPath(sessionID)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var events []json.RawMessage
	scanner := bufio.NewScanner(file)
	// Generous cap so large tool-output frames are not dropped.
	const maxEventSize = 10 * 1024 * 1024
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		events = append(events, json.RawMessage(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return events, nil
}

// LoadFrames returns stored wire frames in transcript order. Malformed
// entries are skipped so replay is resilient to partial writes.
func (s *Store) LoadFrames(sessionID string) ([]FrameRecord, error) {
	events, err := s.LoadEvents(sessionID)
	if err != nil {
		return nil, err
	}
	frames := make([]FrameRecord, 0, len(events))
	for _, raw := range events {
		var record FrameRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			continue
		}
		if record.Type != frameRecordType || record.Frame == "" {
			continue
		}
		frames = append(frames, record)
	}
	return frames, nil
}

// recentPath is the per-project MRU list location.
func (s *Store) recentPath() string {
	return filepath.Join(s.BaseDir, "projects", s.projectHash, "recent_sessions.json")
}

// RememberSession records id as the most recently used session for this
// project, deduplicated and capped. Best-effort.
func (s *Store) RememberSession(id string) {
	if id == "" {
		return
	}
	recent := []string{id}
	for _, known := range s.RecentSessions() {
		if known == id {
			continue
		}
		recent = append(recent, known)
	}
	if len(recent) > maxRecentSessions {
		recent = recent[:maxRecentSessions]
	}

	path := s.recentPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	data, err := json.Marshal(recent)
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0o600)
}

// RecentSessions lists this project's session ids, most recent first.
// Best-effort; a missing or corrupt list reads as empty.
func (s *Store) RecentSessions() []string {
	raw, err := os.ReadFile(s.recentPath())
	if err != nil {
		return nil
	}
	var recent []string
	if err := json.Unmarshal(raw, &recent); err != nil {
		return nil
	}
	return recent
}

// LastSession returns the most recently used session id, or empty.
func (s *Store) LastSession() string {
	recent := s.RecentSessions()
	if len(recent) == 0 {
		return ""
	}
	return recent[0]
}

// prefsPath is the global preferences location.
func (s *Store) prefsPath() string {
	return filepath.Join(s.BaseDir, "prefs.json")
}

func (s *Store) loadPrefs() prefs {
	var loaded prefs
	raw, err := os.ReadFile(s.prefsPath())
	if err != nil {
		return loaded
	}
	_ = json.Unmarshal(raw, &loaded)
	return loaded
}

// AutoNewSession reports whether a session should be created automatically
// after connecting. Defaults to true when no preference is stored.
func (s *Store) AutoNewSession() bool {
	loaded := s.loadPrefs()
	if loaded.AutoNewSession == nil {
		return true
	}
	return *loaded.AutoNewSession
}

// SetAutoNewSession persists the auto session preference. Best-effort.
func (s *Store) SetAutoNewSession(enabled bool) {
	loaded := s.loadPrefs()
	loaded.AutoNewSession = &enabled
	if err := os.MkdirAll(s.BaseDir, 0o755); err != nil {
		return
	}
	data, err := json.Marshal(loaded)
	if err != nil {
		return
	}
	_ = os.WriteFile(s.prefsPath(), data, 0o600)
}

// ListSessions returns known session ids across all projects, sorted by
// transcript modification time descending.
func (s *Store) ListSessions(limit int) ([]string, error) {
	dir := filepath.Join(s.BaseDir, "sessions")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type entry struct {
		Name string
		Time time.Time
	}

	var list []entry
	for _, item := range entries {
		if item.IsDir() {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(item.Name(), filepath.Ext(item.Name()))
		list = append(list, entry{Name: name, Time: info.ModTime()})
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Time.After(list[j].Time)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	result := make([]string, 0, len(list))
	for _, item := range list {
		result = append(result, item.Name)
	}
	return result, nil
}
