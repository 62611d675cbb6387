package models

import "sync"

// SlotName identifies one of the query result slots of a Panel.
type SlotName string

const (
	SlotAnalyze SlotName = "analyze"
	SlotCompare SlotName = "compare"
)

// MessageKind styles the upload message.
type MessageKind string

const (
	MessageInfo    MessageKind = "info"
	MessageSuccess MessageKind = "success"
	MessageWarning MessageKind = "warning"
	MessageError   MessageKind = "error"
)

// Slot holds the state of one query action. Each action owns its own
// pending flag and sequence number; the two slots never share state.
type Slot struct {
	Pending   bool
	Seq       uint64
	HasResult bool
	Result    any
}

// Panel is one mounted instance of the App shell: the upload message and
// the two query slots. Mounting a new panel closes the previous one, and a
// closed panel ignores every late result.
type Panel struct {
	mu sync.Mutex

	uploadMessage string
	uploadKind    MessageKind

	slots  map[SlotName]*Slot
	closed bool
}

// NewPanel creates an empty panel.
func NewPanel() *Panel {
	return &Panel{
		slots: map[SlotName]*Slot{
			SlotAnalyze: {},
			SlotCompare: {},
		},
	}
}

// Begin marks the slot pending, clears its previous result and returns the
// sequence number the caller must hand back to Finish.
func (p *Panel) Begin(name SlotName) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.slot(name)
	s.Seq++
	s.Pending = true
	s.HasResult = false
	s.Result = nil
	return s.Seq
}

// Finish stores result if seq is still the newest call on the slot and the
// panel is open. It reports whether the result was kept.
func (p *Panel) Finish(name SlotName, seq uint64, result any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}
	s := p.slot(name)
	if seq != s.Seq {
		return false
	}
	s.Pending = false
	s.HasResult = true
	s.Result = result
	return true
}

// SetUploadMessage replaces the upload message.
func (p *Panel) SetUploadMessage(kind MessageKind, msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.uploadKind = kind
	p.uploadMessage = msg
}

// Close tears the panel down.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// Closed reports whether the panel was torn down.
func (p *Panel) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// PanelView is a point-in-time copy of a Panel for rendering.
type PanelView struct {
	UploadMessage string
	UploadKind    MessageKind
	Analyze       Slot
	Compare       Slot
}

// View snapshots the panel.
func (p *Panel) View() PanelView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PanelView{
		UploadMessage: p.uploadMessage,
		UploadKind:    p.uploadKind,
		Analyze:       *p.slot(SlotAnalyze),
		Compare:       *p.slot(SlotCompare),
	}
}

// SlotView returns a copy of a single slot.
func (p *Panel) SlotView(name SlotName) Slot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.slot(name)
}

func (p *Panel) slot(name SlotName) *Slot {
	s, ok := p.slots[name]
	if !ok {
		s = &Slot{}
		p.slots[name] = s
	}
	return s
}
