package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"research-pilot-client/api"
	"research-pilot-client/db"
	"research-pilot-client/utils"
)

// App represents the main application
type App struct {
	fyneApp    fyne.App
	window     fyne.Window
	config     *utils.Config
	configPath string
	store      *db.DB
	client     *api.Client
	logger     *utils.Logger

	// Main view components, rebuilt on every login
	tabs           *container.DocTabs
	workspacesView *WorkspacesView
	searchView     *SearchView
	chatView       *ChatView

	// Scoped chat tabs keyed by workspace id
	workspaceChatTabs  map[int64]*container.TabItem
	workspaceChatViews map[int64]*ChatView
}

// NewApp creates a new application instance
func NewApp(config *utils.Config, configPath string, store *db.DB, client *api.Client, logger *utils.Logger) *App {
	fyneApp := app.NewWithID("research-pilot-client")
	window := fyneApp.NewWindow("ResearchPilot")

	window.Resize(fyne.NewSize(
		float32(config.UI.WindowWidth),
		float32(config.UI.WindowHeight),
	))

	application := &App{
		fyneApp:    fyneApp,
		window:     window,
		config:     config,
		configPath: configPath,
		store:      store,
		client:     client,
		logger:     logger,
	}

	window.SetOnClosed(func() {
		size := window.Canvas().Size()
		application.config.UI.WindowWidth = int(size.Width)
		application.config.UI.WindowHeight = int(size.Height)
		if err := utils.SaveConfig(application.configPath, application.config); err != nil {
			application.logger.Error("Failed to save window size: %v", err)
		}
	})

	application.applyThemeFromConfig()
	application.route()

	return application
}

// route sets the window content from credential presence alone: no token
// shows the auth view, a token shows the main view.
func (a *App) route() {
	if a.authenticated() {
		a.showMain()
	} else {
		a.showAuth()
	}
}

// authenticated reports whether a credential is stored.
func (a *App) authenticated() bool {
	_, ok, err := a.store.Token()
	if err != nil {
		a.logger.Error("Failed to read stored credential: %v", err)
		return false
	}
	return ok
}

// showAuth switches to the login/registration view.
func (a *App) showAuth() {
	a.tabs = nil
	a.workspacesView = nil
	a.searchView = nil
	a.chatView = nil
	a.workspaceChatTabs = nil
	a.workspaceChatViews = nil

	authView := NewAuthView(a)
	a.window.SetContent(authView.Build())
	a.logger.Info("Showing auth view")
}

// showMain builds the authenticated main view: workspace directory, paper
// discovery, and the unscoped assistant, as closable document tabs.
func (a *App) showMain() {
	a.workspacesView = NewWorkspacesView(a)
	a.searchView = NewSearchView(a)
	a.chatView = NewChatView(a)
	a.workspaceChatTabs = make(map[int64]*container.TabItem)
	a.workspaceChatViews = make(map[int64]*ChatView)

	workspacesTab := container.NewTabItem("Workspaces", a.workspacesView.Build())
	searchTab := container.NewTabItem("Search Papers", a.searchView.Build())
	chatTab := container.NewTabItem("AI Assistant", a.chatView.Build())

	a.tabs = container.NewDocTabs(workspacesTab, searchTab, chatTab)
	a.tabs.CloseIntercept = func(item *container.TabItem) {
		// The three root tabs stay open; only scoped chat tabs close.
		for wsID, tab := range a.workspaceChatTabs {
			if tab == item {
				a.closeWorkspaceChatTab(wsID)
				return
			}
		}
	}

	logoutButton := widget.NewButton("Logout", func() {
		a.logout()
	})
	logoutButton.Importance = widget.LowImportance

	header := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("ResearchPilot", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		logoutButton,
	)

	a.window.SetContent(container.NewBorder(header, nil, nil, nil, a.tabs))
	a.logger.Info("Showing main view")
}

// logout clears the stored credential and returns to the auth view. Any
// scoped chat sessions are torn down so late responses are dropped.
func (a *App) logout() {
	for _, view := range a.workspaceChatViews {
		view.Close()
	}
	if a.chatView != nil {
		a.chatView.Close()
	}

	if err := a.store.ClearToken(); err != nil {
		a.logger.Error("Failed to clear credential: %v", err)
	}
	a.logger.Info("Logged out")
	a.showAuth()
}

// openWorkspaceChat opens (or focuses) a chat tab scoped to a workspace.
func (a *App) openWorkspaceChat(workspace api.Workspace) {
	if tab, exists := a.workspaceChatTabs[workspace.ID]; exists {
		a.tabs.Select(tab)
		return
	}

	view := NewWorkspaceChatView(a, workspace.ID)
	tab := container.NewTabItem("Chat: "+workspace.Name, view.Build())
	a.workspaceChatTabs[workspace.ID] = tab
	a.workspaceChatViews[workspace.ID] = view

	a.tabs.Append(tab)
	a.tabs.Select(tab)
	a.logger.Info("Opened chat scoped to workspace %d", workspace.ID)
}

// closeWorkspaceChatTab closes a scoped chat tab and its session.
func (a *App) closeWorkspaceChatTab(workspaceID int64) {
	tab, exists := a.workspaceChatTabs[workspaceID]
	if !exists {
		return
	}

	a.workspaceChatViews[workspaceID].Close()
	a.tabs.Remove(tab)
	delete(a.workspaceChatTabs, workspaceID)
	delete(a.workspaceChatViews, workspaceID)
	a.logger.Info("Closed chat tab for workspace %d", workspaceID)
}

// Run starts the application. The caller owns the store and logger and
// closes them after Run returns.
func (a *App) Run() {
	a.window.ShowAndRun()
}

// showError shows an error dialog
func (a *App) showError(message string) {
	var popup *widget.PopUp
	popup = widget.NewModalPopUp(
		container.NewVBox(
			widget.NewLabelWithStyle("Error", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
			widget.NewLabel(message),
			widget.NewButton("OK", func() {
				popup.Hide()
			}),
		),
		a.window.Canvas(),
	)
	popup.Show()
}

// showInfo shows an info dialog
func (a *App) showInfo(message string) {
	var popup *widget.PopUp
	popup = widget.NewModalPopUp(
		container.NewVBox(
			widget.NewLabel(message),
			widget.NewButton("OK", func() {
				popup.Hide()
			}),
		),
		a.window.Canvas(),
	)
	popup.Show()
}

// confirm shows a confirmation dialog and runs onConfirm if accepted.
func (a *App) confirm(title, message string, onConfirm func()) {
	var popup *widget.PopUp
	popup = widget.NewModalPopUp(
		container.NewVBox(
			widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
			widget.NewLabel(message),
			container.NewHBox(
				widget.NewButton("Cancel", func() {
					popup.Hide()
				}),
				widget.NewButton("Confirm", func() {
					popup.Hide()
					onConfirm()
				}),
			),
		),
		a.window.Canvas(),
	)
	popup.Show()
}

// applyThemeFromConfig applies the theme from config
func (a *App) applyThemeFromConfig() {
	isDark := a.config.UI.Theme == "dark"
	fontSize := a.config.UI.FontSize
	if fontSize < 10 {
		fontSize = 14
	}

	a.fyneApp.Settings().SetTheme(newCustomTheme(fontSize, isDark))
	a.logger.Info("Applied %s theme with font size %d", a.config.UI.Theme, fontSize)
}

func pluralize(count int, noun string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}
