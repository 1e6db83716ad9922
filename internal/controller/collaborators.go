package controller

import (
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/mutation"
	"github.com/rebeliceyang/lazyjson/internal/preview"
)

// Clipboard receives copied text
type Clipboard interface {
	Copy(text string) error
}

// ValueEditor collects a replacement value from the user. It must call resolve
// exactly once; later calls are ignored.
type ValueEditor interface {
	Edit(req EditRequest, resolve func(EditOutcome))
}

// LinkPreviewer fetches a URL in the background and calls resolve once with
// the response or an error
type LinkPreviewer interface {
	FetchLinkType(url string, resolve func(preview.Response, error))
}

// Surface is whatever draws the tree: the terminal UI or a browser connection
type Surface interface {
	// Patch announces that Node was re-rendered. With a subtree scope Node
	// replaces the rows at Scope.Path; with a full rebuild it is the new root.
	Patch(p Patch)
	ShowPreview(resp preview.Response)
	Notify(text string)
}

// Patch is a structural change to the rendered tree
type Patch struct {
	Scope mutation.Scope
	Node  *models.Node
}

type nopSurface struct{}

func (nopSurface) Patch(Patch)                    {}
func (nopSurface) ShowPreview(preview.Response) {}
func (nopSurface) Notify(string)                  {}
