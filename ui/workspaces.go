package ui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"research-pilot-client/api"
	"research-pilot-client/utils"
)

// WorkspacesView lists the user's workspaces and the papers of the
// selected workspace. Paper selection lives here only; leaving the
// workspace discards it.
type WorkspacesView struct {
	app *App

	workspaces    []api.Workspace
	workspaceList *widget.List
	nameEntry     *widget.Entry

	current       *api.Workspace
	papers        []api.Paper
	selected      map[int64]bool
	deleting      map[int64]bool
	detailTitle   *widget.Label
	detailStatus  *widget.Label
	papersBox     *fyne.Container
	selectAllBtn  *widget.Button
	chatButton    *widget.Button
	detailContent *fyne.Container
}

// NewWorkspacesView creates a new workspaces view
func NewWorkspacesView(app *App) *WorkspacesView {
	return &WorkspacesView{
		app:      app,
		selected: make(map[int64]bool),
		deleting: make(map[int64]bool),
	}
}

// Build builds the workspaces view UI
func (wv *WorkspacesView) Build() fyne.CanvasObject {
	wv.workspaceList = widget.NewList(
		func() int {
			return len(wv.workspaces)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Workspace")
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			if i < len(wv.workspaces) {
				obj.(*widget.Label).SetText(wv.workspaces[i].Name)
			}
		},
	)
	wv.workspaceList.OnSelected = func(i widget.ListItemID) {
		if i < len(wv.workspaces) {
			wv.openWorkspace(wv.workspaces[i])
		}
	}

	wv.nameEntry = widget.NewEntry()
	wv.nameEntry.SetPlaceHolder("New workspace name...")
	createButton := widget.NewButton("Create", func() {
		wv.handleCreate()
	})
	createButton.Importance = widget.HighImportance

	createBar := container.NewBorder(nil, nil, nil, createButton, wv.nameEntry)
	left := container.NewBorder(
		widget.NewLabelWithStyle("Your Workspaces", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		createBar,
		nil, nil,
		wv.workspaceList,
	)

	// Detail pane
	wv.detailTitle = widget.NewLabelWithStyle("Select a workspace", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	wv.detailStatus = widget.NewLabel("")

	wv.selectAllBtn = widget.NewButton("Select All", func() {
		wv.toggleSelectAll()
	})
	wv.selectAllBtn.Hide()

	wv.chatButton = widget.NewButton("Chat About Selection", func() {
		wv.handleOpenChat()
	})
	wv.chatButton.Importance = widget.HighImportance
	wv.chatButton.Hide()

	wv.papersBox = container.NewVBox()

	detailHeader := container.NewBorder(nil, nil, wv.detailTitle,
		container.NewHBox(wv.selectAllBtn, wv.chatButton))

	wv.detailContent = container.NewBorder(
		container.NewVBox(detailHeader, wv.detailStatus, widget.NewSeparator()),
		nil, nil, nil,
		container.NewVScroll(wv.papersBox),
	)

	split := container.NewHSplit(left, wv.detailContent)
	split.SetOffset(0.3)

	wv.loadWorkspaces()
	return split
}

// loadWorkspaces fetches the workspace list; failures degrade to an empty
// list and a log line.
func (wv *WorkspacesView) loadWorkspaces() {
	utils.SafeGo(wv.app.logger, "loadWorkspaces", func() {
		workspaces, err := wv.app.client.MyWorkspaces(context.Background())

		fyne.Do(func() {
			if err != nil {
				wv.app.logger.Error("Failed to load workspaces: %v", err)
				wv.workspaces = nil
			} else {
				wv.workspaces = workspaces
			}
			wv.workspaceList.Refresh()
		})
	})
}

func (wv *WorkspacesView) handleCreate() {
	name := strings.TrimSpace(wv.nameEntry.Text)
	if name == "" {
		wv.app.showInfo("Please enter a workspace name")
		return
	}

	utils.SafeGoWithError(wv.app.logger, "createWorkspace", func() error {
		ws, err := wv.app.client.CreateWorkspace(context.Background(), name)
		if err != nil {
			return err
		}
		fyne.Do(func() {
			wv.app.logger.Info("Created workspace %d (%s)", ws.ID, ws.Name)
			wv.nameEntry.SetText("")
			wv.loadWorkspaces()
		})
		return nil
	}, func(error) {
		fyne.Do(func() {
			wv.app.showError("Failed to create workspace")
		})
	})
}

// openWorkspace switches the detail pane to one workspace. The previous
// selection set is discarded.
func (wv *WorkspacesView) openWorkspace(ws api.Workspace) {
	wv.current = &ws
	wv.papers = nil
	wv.selected = make(map[int64]bool)
	wv.deleting = make(map[int64]bool)
	wv.detailTitle.SetText(ws.Name)
	wv.detailStatus.SetText("Loading papers...")
	wv.renderPapers()

	utils.SafeGo(wv.app.logger, "loadWorkspacePapers", func() {
		papers, err := wv.app.client.WorkspacePapers(context.Background(), ws.ID)

		fyne.Do(func() {
			if wv.current == nil || wv.current.ID != ws.ID {
				return // user moved on while loading
			}
			if err != nil {
				wv.app.logger.Error("Failed to load papers for workspace %d: %v", ws.ID, err)
				wv.papers = nil
				wv.detailStatus.SetText("Failed to load papers")
			} else {
				wv.papers = papers
				wv.detailStatus.SetText(pluralize(len(papers), "paper"))
			}
			wv.renderPapers()
		})
	})
}

// renderPapers rebuilds the paper rows for the current workspace.
func (wv *WorkspacesView) renderPapers() {
	wv.papersBox.RemoveAll()

	if wv.current == nil {
		wv.selectAllBtn.Hide()
		wv.chatButton.Hide()
		wv.papersBox.Refresh()
		return
	}

	if len(wv.papers) == 0 {
		wv.selectAllBtn.Hide()
		wv.chatButton.Hide()
		wv.papersBox.Add(widget.NewLabel("No papers in this workspace yet. Import some from Search."))
		wv.papersBox.Refresh()
		return
	}

	wv.selectAllBtn.Show()
	wv.chatButton.Show()
	wv.updateSelectionControls()

	for _, paper := range wv.papers {
		wv.papersBox.Add(wv.buildPaperRow(paper))
	}
	wv.papersBox.Refresh()
}

func (wv *WorkspacesView) buildPaperRow(paper api.Paper) fyne.CanvasObject {
	check := widget.NewCheck(paper.Title, func(checked bool) {
		wv.togglePaper(paper.ID, checked)
	})
	check.SetChecked(wv.selected[paper.ID])

	meta := paperMeta(paper.Authors, paper.Year, paper.Citations)
	metaLabel := widget.NewLabelWithStyle(meta, fyne.TextAlignLeading, fyne.TextStyle{Italic: true})

	abstract := widget.NewLabel(truncate(paper.Abstract, 240))
	abstract.Wrapping = fyne.TextWrapWord

	deleteButton := widget.NewButton("Remove", func() {
		wv.handleDelete(paper.ID)
	})
	deleteButton.Importance = widget.DangerImportance
	if wv.deleting[paper.ID] {
		deleteButton.Disable()
	}

	header := container.NewBorder(nil, nil, nil, deleteButton, check)
	return container.NewVBox(header, metaLabel, abstract, widget.NewSeparator())
}

func (wv *WorkspacesView) togglePaper(paperID int64, checked bool) {
	if checked {
		wv.selected[paperID] = true
	} else {
		delete(wv.selected, paperID)
	}
	wv.updateSelectionControls()
}

// toggleSelectAll selects every paper, or clears the selection when all
// papers are already selected.
func (wv *WorkspacesView) toggleSelectAll() {
	if len(wv.selected) == len(wv.papers) {
		wv.selected = make(map[int64]bool)
	} else {
		for _, paper := range wv.papers {
			wv.selected[paper.ID] = true
		}
	}
	wv.renderPapers()
}

func (wv *WorkspacesView) updateSelectionControls() {
	if len(wv.selected) == len(wv.papers) && len(wv.papers) > 0 {
		wv.selectAllBtn.SetText("Deselect All")
	} else {
		wv.selectAllBtn.SetText("Select All")
	}
	wv.chatButton.SetText(fmt.Sprintf("Chat About Selection (%d)", len(wv.selected)))
}

// handleOpenChat enters a chat session scoped to the current workspace.
// The chat context is the workspace, not the specific subset; selection
// only gates the action.
func (wv *WorkspacesView) handleOpenChat() {
	if wv.current == nil {
		return
	}
	if len(wv.selected) == 0 {
		wv.app.showInfo("Please select at least one paper to chat about")
		return
	}
	wv.app.openWorkspaceChat(*wv.current)
}

// handleDelete removes a paper after confirmation. The row leaves the
// list and the selection set only once the backend call succeeds; the id
// is marked busy so a second delete cannot race the first.
func (wv *WorkspacesView) handleDelete(paperID int64) {
	if wv.deleting[paperID] {
		return
	}

	wv.app.confirm("Remove Paper", "Are you sure you want to remove this paper from the workspace?", func() {
		wv.deleting[paperID] = true
		wv.renderPapers()

		utils.SafeGoWithError(wv.app.logger, "deletePaper", func() error {
			if err := wv.app.client.DeletePaper(context.Background(), paperID); err != nil {
				return err
			}
			fyne.Do(func() {
				delete(wv.deleting, paperID)
				kept := wv.papers[:0]
				for _, paper := range wv.papers {
					if paper.ID != paperID {
						kept = append(kept, paper)
					}
				}
				wv.papers = kept
				delete(wv.selected, paperID)
				wv.detailStatus.SetText(pluralize(len(wv.papers), "paper"))
				wv.app.logger.Info("Deleted paper %d", paperID)
				wv.renderPapers()
			})
			return nil
		}, func(error) {
			fyne.Do(func() {
				delete(wv.deleting, paperID)
				wv.app.showError("Failed to delete paper")
				wv.renderPapers()
			})
		})
	})
}

// paperMeta formats the optional author/year/citation line.
func paperMeta(authors string, year, citations int) string {
	parts := []string{}
	if authors != "" {
		parts = append(parts, authors)
	}
	if year != 0 {
		parts = append(parts, fmt.Sprintf("%d", year))
	}
	if citations != 0 {
		parts = append(parts, fmt.Sprintf("%d citations", citations))
	}
	return strings.Join(parts, " · ")
}

// truncate shortens s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
