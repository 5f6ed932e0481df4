package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"research-pilot-client/api"
	"research-pilot-client/utils"
)

// SearchView queries the external paper index and imports results into a
// workspace. Import markers are keyed by result position: discovered
// papers have no stable id until imported, and a new search resets them.
type SearchView struct {
	app *App

	searchEntry  *widget.Entry
	searchButton *widget.Button
	statusLabel  *widget.Label
	resultsBox   *fyne.Container

	workspaceSelect     *widget.Select
	workspaces          []api.Workspace
	selectedWorkspaceID int64

	results   []api.DiscoveredPaper
	imported  map[int]bool
	importing map[int]bool
	searching bool
	// searchGen advances whenever the result set is replaced; import
	// completions from an earlier generation are stale and dropped.
	searchGen uint64
}

// NewSearchView creates a new search view
func NewSearchView(app *App) *SearchView {
	return &SearchView{
		app:       app,
		imported:  make(map[int]bool),
		importing: make(map[int]bool),
	}
}

// Build builds the search view UI
func (sv *SearchView) Build() fyne.CanvasObject {
	sv.searchEntry = widget.NewEntry()
	sv.searchEntry.SetPlaceHolder("Search academic papers...")
	sv.searchEntry.OnSubmitted = func(string) {
		sv.handleSearch()
	}

	sv.searchButton = widget.NewButton("Search", func() {
		sv.handleSearch()
	})
	sv.searchButton.Importance = widget.HighImportance

	sv.workspaceSelect = widget.NewSelect(nil, func(selected string) {
		for _, ws := range sv.workspaces {
			if ws.Name == selected {
				sv.selectedWorkspaceID = ws.ID
				return
			}
		}
	})
	sv.workspaceSelect.PlaceHolder = "Import into workspace..."

	sv.statusLabel = widget.NewLabel("Search for papers to import into your workspaces")
	sv.statusLabel.Alignment = fyne.TextAlignCenter

	sv.resultsBox = container.NewVBox()

	searchBar := container.NewBorder(nil, nil, nil, sv.searchButton, sv.searchEntry)
	workspaceBar := container.NewBorder(nil, nil, widget.NewLabel("Workspace:"), nil, sv.workspaceSelect)

	sv.loadWorkspaces()

	return container.NewBorder(
		container.NewVBox(searchBar, workspaceBar, sv.statusLabel, widget.NewSeparator()),
		nil, nil, nil,
		container.NewVScroll(sv.resultsBox),
	)
}

// loadWorkspaces populates the destination selector, pre-selecting the
// first workspace in backend order. Failures log and leave it empty.
func (sv *SearchView) loadWorkspaces() {
	utils.SafeGo(sv.app.logger, "searchLoadWorkspaces", func() {
		workspaces, err := sv.app.client.MyWorkspaces(context.Background())

		fyne.Do(func() {
			if err != nil {
				sv.app.logger.Error("Failed to load workspaces for import: %v", err)
				return
			}
			sv.workspaces = workspaces

			names := make([]string, len(workspaces))
			for i, ws := range workspaces {
				names[i] = ws.Name
			}
			sv.workspaceSelect.Options = names
			if len(workspaces) > 0 {
				sv.selectedWorkspaceID = workspaces[0].ID
				sv.workspaceSelect.SetSelected(workspaces[0].Name)
			}
			sv.workspaceSelect.Refresh()
		})
	})
}

// handleSearch queries the index. An empty or whitespace-only query makes
// no network call and leaves prior results untouched.
func (sv *SearchView) handleSearch() {
	query := strings.TrimSpace(sv.searchEntry.Text)
	if query == "" || sv.searching {
		return
	}

	sv.searching = true
	sv.searchButton.Disable()
	sv.statusLabel.SetText("Searching...")

	utils.SafeGo(sv.app.logger, "searchPapers", func() {
		results, err := sv.app.client.SearchPapers(context.Background(), query)

		fyne.Do(func() {
			sv.searching = false
			sv.searchButton.Enable()

			// New results replace the old set and clear import markers.
			sv.searchGen++
			sv.imported = make(map[int]bool)
			sv.importing = make(map[int]bool)

			if err != nil {
				sv.app.logger.Error("Paper search failed: %v", err)
				sv.results = nil
				sv.statusLabel.SetText("Search failed. Please try again.")
			} else {
				sv.results = results
				if len(results) == 0 {
					sv.statusLabel.SetText(fmt.Sprintf("No papers found for %q", query))
				} else {
					sv.statusLabel.SetText(fmt.Sprintf("Found %s for %q", pluralize(len(results), "paper"), query))
				}
			}
			sv.renderResults()
		})
	})
}

// renderResults rebuilds the ranked result rows, preserving index order.
func (sv *SearchView) renderResults() {
	sv.resultsBox.RemoveAll()

	for i, paper := range sv.results {
		sv.resultsBox.Add(sv.buildResultRow(i, paper))
	}
	sv.resultsBox.Refresh()
}

func (sv *SearchView) buildResultRow(index int, paper api.DiscoveredPaper) fyne.CanvasObject {
	title := widget.NewLabelWithStyle(paper.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	title.Wrapping = fyne.TextWrapWord

	metaLabel := widget.NewLabelWithStyle(paperMeta(paper.Authors, paper.Year, paper.Citations),
		fyne.TextAlignLeading, fyne.TextStyle{Italic: true})

	abstract := widget.NewLabel(truncate(paper.Abstract, 300))
	abstract.Wrapping = fyne.TextWrapWord

	var importButton *widget.Button
	switch {
	case sv.imported[index]:
		importButton = widget.NewButton("Imported", nil)
		importButton.Disable()
	case sv.importing[index]:
		importButton = widget.NewButton("Importing...", nil)
		importButton.Disable()
	default:
		importButton = widget.NewButton("Import", func() {
			sv.handleImport(index)
		})
	}

	header := container.NewBorder(nil, nil, nil, importButton, title)
	return container.NewVBox(header, metaLabel, abstract, widget.NewSeparator())
}

// handleImport copies the result at the given position into the selected
// workspace. No workspace selected is a local notice, not a network call.
func (sv *SearchView) handleImport(index int) {
	if index >= len(sv.results) || sv.importing[index] || sv.imported[index] {
		return
	}
	if sv.selectedWorkspaceID == 0 {
		sv.app.showInfo("Please select a workspace first")
		return
	}

	paper := sv.results[index]
	workspaceID := sv.selectedWorkspaceID
	gen := sv.searchGen
	sv.importing[index] = true
	sv.renderResults()

	utils.SafeGo(sv.app.logger, "importPaper", func() {
		imported, err := sv.app.client.ImportPaper(context.Background(), paper, workspaceID)

		fyne.Do(func() {
			if gen != sv.searchGen {
				return // a new search replaced these results while importing
			}
			delete(sv.importing, index)
			if err != nil {
				sv.app.logger.Error("Failed to import paper: %v", err)
				sv.app.showError("Failed to import paper")
				sv.renderResults()
				return
			}

			sv.imported[index] = true
			sv.app.logger.Info("Imported paper %d into workspace %d", imported.ID, workspaceID)
			sv.renderResults()
		})
	})
}
