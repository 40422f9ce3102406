package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultAPIURL = "http://localhost:8000"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	replyStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("252"))
)

type step int

const (
	stepEnteringUsername step = iota
	stepEnteringPassword
	stepLoggingIn
	stepEnteringMessage
	stepCreatingChat
	stepComplete
)

type model struct {
	step         step
	apiURL       string
	username     string
	password     string
	accessToken  string
	chatName     string
	reply        string
	currentInput string
	message      string
	quitting     bool
}

type loginSuccessMsg struct{ token string }
type chatCreatedMsg struct {
	name  string
	reply string
}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel() model {
	apiURL := os.Getenv("CHAT_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return model{
		step:   stepEnteringUsername,
		apiURL: apiURL,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func loginUser(apiURL, username, password string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		form := url.Values{}
		form.Set("username", username)
		form.Set("password", password)

		resp, err := client.PostForm(apiURL+"/api/v1/token", form)
		if err != nil {
			return errMsg{fmt.Errorf("could not reach the API at %s", apiURL)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return errMsg{fmt.Errorf("login failed - check your credentials and that your email is verified")}
		}

		var body struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.AccessToken == "" {
			return errMsg{fmt.Errorf("unexpected login response")}
		}
		return loginSuccessMsg{token: body.AccessToken}
	}
}

func createChat(apiURL, token, content string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 60 * time.Second}

		payload, _ := json.Marshal(map[string]string{"message_content": content})
		req, _ := http.NewRequest("POST", apiURL+"/api/v1/chats", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("could not reach the API: %v", err)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return errMsg{fmt.Errorf("chat creation failed with status %d", resp.StatusCode)}
		}

		var body struct {
			Name  string `json:"name"`
			Reply string `json:"reply"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return errMsg{fmt.Errorf("unexpected chat response")}
		}
		return chatCreatedMsg{name: body.Name, reply: body.Reply}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}
		default:
			if len(msg.String()) == 1 {
				m.currentInput += msg.String()
			}
		}

	case loginSuccessMsg:
		m.accessToken = msg.token
		m.step = stepEnteringMessage
		m.message = ""

	case chatCreatedMsg:
		m.chatName = msg.name
		m.reply = msg.reply
		m.step = stepComplete

	case errMsg:
		m.message = msg.Error()
		switch m.step {
		case stepLoggingIn:
			m.step = stepEnteringUsername
			m.username = ""
			m.password = ""
		case stepCreatingChat:
			m.step = stepEnteringMessage
		}
	}

	return m, nil
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.currentInput)
	m.currentInput = ""

	switch m.step {
	case stepEnteringUsername:
		if input == "" {
			m.message = "username cannot be empty"
			return m, nil
		}
		m.username = input
		m.step = stepEnteringPassword
		m.message = ""

	case stepEnteringPassword:
		m.password = input
		m.step = stepLoggingIn
		m.message = ""
		return m, loginUser(m.apiURL, m.username, m.password)

	case stepEnteringMessage:
		if input == "" {
			m.message = "message cannot be empty"
			return m, nil
		}
		m.step = stepCreatingChat
		m.message = ""
		return m, createChat(m.apiURL, m.accessToken, input)

	case stepComplete:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("chat-api setup"))
	b.WriteString("\n\n")

	switch m.step {
	case stepEnteringUsername:
		b.WriteString(promptStyle.Render("Username: "))
		b.WriteString(inputStyle.Render(m.currentInput))
	case stepEnteringPassword:
		b.WriteString(promptStyle.Render("Password: "))
		b.WriteString(inputStyle.Render(strings.Repeat("*", len(m.currentInput))))
	case stepLoggingIn:
		b.WriteString("Logging in...")
	case stepEnteringMessage:
		b.WriteString(successStyle.Render("Logged in."))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("First message: "))
		b.WriteString(inputStyle.Render(m.currentInput))
	case stepCreatingChat:
		b.WriteString("Asking a validator, this can take a while...")
	case stepComplete:
		b.WriteString(successStyle.Render("Chat created: " + m.chatName))
		b.WriteString("\n\n")
		b.WriteString(replyStyle.Render(m.reply))
		b.WriteString("\n\n")
		b.WriteString("Press enter to exit.")
	}

	if m.message != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.message))
	}

	b.WriteString("\n")
	return b.String()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
