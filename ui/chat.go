package ui

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"research-pilot-client/chat"
	"research-pilot-client/utils"
)

// ChatView renders one conversation session. A view is either unscoped or
// scoped to a workspace's papers; scoping is fixed when the view opens.
type ChatView struct {
	app         *App
	workspaceID int64
	session     *chat.Session

	messagesBox *fyne.Container
	scroll      *container.Scroll
	input       *widget.Entry
	sendButton  *widget.Button
	clearButton *widget.Button
	contextBox  *fyne.Container
}

// NewChatView creates an unscoped chat view.
func NewChatView(app *App) *ChatView {
	return &ChatView{app: app}
}

// NewWorkspaceChatView creates a chat view scoped to a workspace. Context
// assembly happens asynchronously once the view is built.
func NewWorkspaceChatView(app *App, workspaceID int64) *ChatView {
	return &ChatView{app: app, workspaceID: workspaceID}
}

// Build builds the chat view UI
func (cv *ChatView) Build() fyne.CanvasObject {
	cv.messagesBox = container.NewVBox()
	cv.scroll = container.NewVScroll(cv.messagesBox)

	cv.input = widget.NewEntry()
	cv.input.SetPlaceHolder("Ask me anything about your research...")
	cv.input.OnSubmitted = func(string) {
		cv.handleSend()
	}

	cv.sendButton = widget.NewButton("Send", func() {
		cv.handleSend()
	})
	cv.sendButton.Importance = widget.HighImportance

	cv.clearButton = widget.NewButton("Clear Chat", func() {
		if cv.session != nil {
			cv.session.Reset()
		}
	})
	cv.clearButton.Importance = widget.LowImportance

	inputBar := container.NewBorder(nil, nil, cv.clearButton, cv.sendButton, cv.input)
	chatArea := container.NewBorder(nil, inputBar, nil, nil, cv.scroll)

	if cv.workspaceID == 0 {
		cv.attachSession(chat.NewSession(cv.app.client, cv.app.logger))
		return chatArea
	}

	// Scoped mode keeps a context panel beside the thread.
	cv.contextBox = container.NewVBox(widget.NewLabel("Loading workspace context..."))
	split := container.NewHSplit(container.NewVScroll(cv.contextBox), chatArea)
	split.SetOffset(0.25)

	cv.setBusy(true)
	utils.SafeGo(cv.app.logger, "loadWorkspaceContext", func() {
		session := chat.NewWorkspaceSession(context.Background(), cv.app.client, cv.app.logger, cv.workspaceID)

		fyne.Do(func() {
			cv.attachSession(session)
			cv.setBusy(false)
			cv.renderContext()
		})
	})

	return split
}

func (cv *ChatView) attachSession(session *chat.Session) {
	cv.session = session
	session.SetOnUpdate(func() {
		fyne.Do(func() {
			cv.renderMessages()
		})
	})
	cv.renderMessages()
}

// Close tears down the session so in-flight replies are discarded.
func (cv *ChatView) Close() {
	if cv.session != nil {
		cv.session.Close()
	}
}

func (cv *ChatView) handleSend() {
	if cv.session == nil || cv.session.Busy() {
		return
	}
	text := strings.TrimSpace(cv.input.Text)
	if text == "" {
		return
	}

	cv.input.SetText("")
	cv.setBusy(true)

	utils.SafeGo(cv.app.logger, "chatSend", func() {
		// Errors are absorbed into the thread as an apology message.
		err := cv.session.Send(context.Background(), text)

		fyne.Do(func() {
			cv.setBusy(false)
			if err != nil {
				cv.app.logger.Warn("Send rejected locally: %v", err)
			}
			cv.window().Canvas().Focus(cv.input)
		})
	})
}

// setBusy disables the send controls while one call is in flight.
func (cv *ChatView) setBusy(busy bool) {
	if busy {
		cv.input.Disable()
		cv.sendButton.Disable()
	} else {
		cv.input.Enable()
		cv.sendButton.Enable()
	}
}

// renderMessages rebuilds the thread from the session snapshot.
func (cv *ChatView) renderMessages() {
	if cv.session == nil {
		return
	}

	cv.messagesBox.RemoveAll()
	for _, msg := range cv.session.Messages() {
		cv.messagesBox.Add(buildMessageRow(msg))
	}
	cv.messagesBox.Refresh()
	cv.scroll.ScrollToBottom()
}

// renderContext rebuilds the scoped-mode side panel.
func (cv *ChatView) renderContext() {
	if cv.contextBox == nil || cv.session == nil {
		return
	}

	cv.contextBox.RemoveAll()

	name := cv.session.WorkspaceName()
	if name == "" {
		name = "Workspace"
	}
	cv.contextBox.Add(widget.NewLabelWithStyle(name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))

	papers := cv.session.Papers()
	cv.contextBox.Add(widget.NewLabel(pluralize(len(papers), "paper") + " loaded"))
	cv.contextBox.Add(widget.NewSeparator())

	for _, paper := range papers {
		title := widget.NewLabel("• " + paper.Title)
		title.Wrapping = fyne.TextWrapWord
		cv.contextBox.Add(title)
	}
	cv.contextBox.Refresh()
}

func (cv *ChatView) window() fyne.Window {
	return cv.app.window
}

func buildMessageRow(msg chat.Message) fyne.CanvasObject {
	speaker := "Assistant"
	if msg.Role == chat.RoleUser {
		speaker = "You"
	}

	header := widget.NewLabelWithStyle(speaker, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	body := widget.NewLabel(msg.Content)
	body.Wrapping = fyne.TextWrapWord

	return container.NewVBox(header, body, widget.NewSeparator())
}
