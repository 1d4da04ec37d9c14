package ui

import (
	"context"
	"html/template"
	"sync"

	"github.com/a-h/templ"

	"github.com/samounneang/asatec-vercel/internal/console"
	"github.com/samounneang/asatec-vercel/internal/notify"
	"github.com/samounneang/asatec-vercel/internal/render"
)

var blockTargets = map[string]bool{
	console.TargetActivity: true,
}

var knownTargets = map[string]bool{
	console.TargetProducts:     true,
	console.TargetContacts:     true,
	console.TargetApplications: true,
	console.TargetMedia:        true,
	console.TargetUsers:        true,
	console.TargetActivity:     true,
}

var knownCounters = map[string]bool{
	console.CounterProducts:     true,
	console.CounterApplications: true,
	console.CounterMedia:        true,
	console.CounterContacts:     true,
	console.CounterContactBadge: true,
}

// Document is the server-side admin document. The console controller mutates
// it through the console.View methods; Snapshot turns it into template data.
type Document struct {
	mu       sync.Mutex
	active   console.PageID
	nav      console.PageID
	fragment string
	targets  map[string]templ.Component
	counters map[string]int
	modals   map[string]bool
	notices  []notify.Notification
}

// NewDocument returns an empty document with no active page.
func NewDocument() *Document {
	return &Document{
		targets:  make(map[string]templ.Component),
		counters: make(map[string]int),
		modals:   make(map[string]bool),
	}
}

func (d *Document) HasPage(id console.PageID) bool {
	return id.Valid()
}

func (d *Document) DeactivatePages() {
	d.mu.Lock()
	d.active = ""
	d.mu.Unlock()
}

func (d *Document) ActivatePage(id console.PageID) {
	d.mu.Lock()
	d.active = id
	d.mu.Unlock()
}

func (d *Document) HighlightNav(id console.PageID) {
	d.mu.Lock()
	d.nav = id
	d.mu.Unlock()
}

func (d *Document) SetFragment(fragment string) {
	d.mu.Lock()
	d.fragment = fragment
	d.mu.Unlock()
}

func (d *Document) ShowLoading(target string) {
	if blockTargets[target] {
		d.setTarget(target, render.LoadingBlock())
		return
	}
	d.setTarget(target, render.LoadingRow())
}

func (d *Document) ShowError(target, message string) {
	if blockTargets[target] {
		d.setTarget(target, render.ErrorBlock(message))
		return
	}
	d.setTarget(target, render.ErrorRow(message))
}

func (d *Document) RenderList(target string, fragment templ.Component) {
	d.setTarget(target, fragment)
}

func (d *Document) SetCounter(id string, value int) {
	if !knownCounters[id] {
		return
	}
	d.mu.Lock()
	d.counters[id] = value
	d.mu.Unlock()
}

func (d *Document) OpenModal(id string) {
	d.mu.Lock()
	d.modals[id] = true
	d.mu.Unlock()
}

func (d *Document) CloseModal(id string) {
	d.mu.Lock()
	delete(d.modals, id)
	d.mu.Unlock()
}

func (d *Document) Notify(n notify.Notification) {
	d.mu.Lock()
	d.notices = append(d.notices, n)
	d.mu.Unlock()
}

// Fragment returns the URL fragment recorded by the last navigation.
func (d *Document) Fragment() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fragment
}

func (d *Document) setTarget(target string, component templ.Component) {
	if !knownTargets[target] {
		return
	}
	d.mu.Lock()
	d.targets[target] = component
	d.mu.Unlock()
}

// Snapshot is the rendered state of a Document.
type Snapshot struct {
	Active   console.PageID
	Nav      console.PageID
	Fragment string
	Targets  map[string]template.HTML
	Counters map[string]int
	Modals   map[string]bool
	Notices  []notify.Notification
}

// Snapshot renders every target fragment.
func (d *Document) Snapshot(ctx context.Context) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{
		Active:   d.active,
		Nav:      d.nav,
		Fragment: d.fragment,
		Targets:  make(map[string]template.HTML, len(d.targets)),
		Counters: make(map[string]int, len(d.counters)),
		Modals:   make(map[string]bool, len(d.modals)),
		Notices:  append([]notify.Notification(nil), d.notices...),
	}
	for target, component := range d.targets {
		html, err := templ.ToGoHTML(ctx, component)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Targets[target] = html
	}
	for id, value := range d.counters {
		snap.Counters[id] = value
	}
	for id, open := range d.modals {
		snap.Modals[id] = open
	}
	return snap, nil
}
