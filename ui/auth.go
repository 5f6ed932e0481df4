package ui

import (
	"context"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"research-pilot-client/utils"
)

// AuthView presents the login and registration forms.
type AuthView struct {
	app *App

	emailEntry     *widget.Entry
	passwordEntry  *widget.Entry
	statusLabel    *widget.Label
	loginButton    *widget.Button
	registerButton *widget.Button
}

// NewAuthView creates a new auth view
func NewAuthView(app *App) *AuthView {
	return &AuthView{app: app}
}

// Build builds the auth view UI
func (av *AuthView) Build() fyne.CanvasObject {
	av.emailEntry = widget.NewEntry()
	av.emailEntry.SetPlaceHolder("Email")

	av.passwordEntry = widget.NewPasswordEntry()
	av.passwordEntry.SetPlaceHolder("Password")
	av.passwordEntry.OnSubmitted = func(string) {
		av.handleLogin()
	}

	av.statusLabel = widget.NewLabel("")
	av.statusLabel.Alignment = fyne.TextAlignCenter
	av.statusLabel.Wrapping = fyne.TextWrapWord

	av.loginButton = widget.NewButton("Sign In", func() {
		av.handleLogin()
	})
	av.loginButton.Importance = widget.HighImportance

	av.registerButton = widget.NewButton("Create Account", func() {
		av.handleRegister()
	})

	title := widget.NewLabelWithStyle("ResearchPilot", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	subtitle := widget.NewLabelWithStyle("Your AI research workspace", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	form := container.NewVBox(
		title,
		subtitle,
		widget.NewSeparator(),
		av.emailEntry,
		av.passwordEntry,
		av.loginButton,
		av.registerButton,
		av.statusLabel,
	)

	return container.NewCenter(container.NewGridWrap(fyne.NewSize(360, 320), form))
}

// validate checks the form locally before any network call.
func (av *AuthView) validate() (email, password string, ok bool) {
	email = strings.TrimSpace(av.emailEntry.Text)
	password = av.passwordEntry.Text
	if email == "" || password == "" {
		av.statusLabel.SetText("Please enter an email and a password")
		return "", "", false
	}
	return email, password, true
}

func (av *AuthView) setBusy(busy bool) {
	if busy {
		av.loginButton.Disable()
		av.registerButton.Disable()
	} else {
		av.loginButton.Enable()
		av.registerButton.Enable()
	}
}

func (av *AuthView) handleLogin() {
	email, password, ok := av.validate()
	if !ok {
		return
	}

	av.setBusy(true)
	av.statusLabel.SetText("Signing in...")

	utils.SafeGo(av.app.logger, "login", func() {
		resp, err := av.app.client.Login(context.Background(), email, password)

		fyne.Do(func() {
			av.setBusy(false)
			if err != nil {
				av.app.logger.Error("Login failed: %v", err)
				av.statusLabel.SetText("Login failed. Check your email and password.")
				return
			}

			if err := av.app.store.SaveToken(resp.AccessToken); err != nil {
				av.app.logger.Error("Failed to persist credential: %v", err)
				av.statusLabel.SetText("Could not store your session. Please try again.")
				return
			}

			av.app.logger.Info("User logged in: %s", email)
			av.app.showMain()
		})
	})
}

// handleRegister creates the account and then logs in with the same
// credentials, since registration does not issue a token.
func (av *AuthView) handleRegister() {
	email, password, ok := av.validate()
	if !ok {
		return
	}

	av.setBusy(true)
	av.statusLabel.SetText("Creating account...")

	utils.SafeGo(av.app.logger, "register", func() {
		_, err := av.app.client.Register(context.Background(), email, password)
		if err != nil {
			fyne.Do(func() {
				av.setBusy(false)
				av.app.logger.Error("Registration failed: %v", err)
				av.statusLabel.SetText("Registration failed. The email may already be in use.")
			})
			return
		}

		resp, err := av.app.client.Login(context.Background(), email, password)

		fyne.Do(func() {
			av.setBusy(false)
			if err != nil {
				av.app.logger.Error("Post-registration login failed: %v", err)
				av.statusLabel.SetText("Account created. Please sign in.")
				return
			}

			if err := av.app.store.SaveToken(resp.AccessToken); err != nil {
				av.app.logger.Error("Failed to persist credential: %v", err)
				av.statusLabel.SetText("Could not store your session. Please sign in.")
				return
			}

			av.app.logger.Info("User registered: %s", email)
			av.app.showMain()
		})
	})
}
