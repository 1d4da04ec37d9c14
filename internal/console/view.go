package console

import (
	"github.com/a-h/templ"

	"github.com/samounneang/asatec-vercel/internal/notify"
)

// View is the document the controller mutates. Implementations skip targets
// they do not contain.
type View interface {
	// HasPage reports whether the document contains a section for id.
	HasPage(id PageID) bool
	DeactivatePages()
	ActivatePage(id PageID)
	HighlightNav(id PageID)
	SetFragment(fragment string)

	ShowLoading(target string)
	ShowError(target, message string)
	RenderList(target string, fragment templ.Component)
	SetCounter(id string, value int)

	OpenModal(id string)
	CloseModal(id string)
	Notify(n notify.Notification)
}
