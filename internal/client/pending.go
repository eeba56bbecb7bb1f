package client

// pendingKind classifies an outbound request awaiting its response.
type pendingKind int

const (
	pendingInitialize pendingKind = iota
	pendingResume
	pendingPrompt
)

// pendingRequest carries the context needed to route a later response.
type pendingRequest struct {
	kind pendingKind
	// sessionID is the session being resumed, pendingResume only.
	sessionID string
	// auto marks a resume that should fall back to session/new on error.
	auto bool
}

// pendingTable correlates outbound request ids with routing context.
// Callers hold the client mutex.
type pendingTable struct {
	entries map[int64]pendingRequest
}

func newPendingTable() *pendingTable {
	return &pendingTable{entries: make(map[int64]pendingRequest)}
}

// track records an in-flight request under its id.
func (t *pendingTable) track(id int64, request pendingRequest) {
	t.entries[id] = request
}

// resolve removes and returns the entry for id, reporting whether one
// existed. Untracked ids fall through to payload-shape routing.
func (t *pendingTable) resolve(id int64) (pendingRequest, bool) {
	request, ok := t.entries[id]
	if ok {
		delete(t.entries, id)
	}
	return request, ok
}

// clear drops all in-flight entries, used on disconnect and log reset.
func (t *pendingTable) clear() {
	t.entries = make(map[int64]pendingRequest)
}
