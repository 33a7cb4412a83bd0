package model

type EmailCredentials struct {
	Server   string `json:"server"`
	Username string `json:"username"`
	Password string `json:"password"`
	IMAP     string `json:"imap"`
	SMTP     string `json:"smtp"`
}

type GroqConfig struct {
	APIKey string `json:"apiKey"`
	Model  string `json:"model"`
}

type OllamaConfig struct {
	URL   string `json:"url"`
	Model string `json:"model"`
}

type AzureConfig struct {
	APIKey  string `json:"apiKey"`
	Enabled bool   `json:"enabled"`
}

type AutomationConfig struct {
	Enabled       bool `json:"enabled"`
	CheckInterval int  `json:"checkInterval"` // minutes
}

// AppSettings is the process-wide configuration. The backend is the single
// source of truth; the controller loads it once at startup and mutates it
// only through explicit save operations.
type AppSettings struct {
	EmailCredentials     EmailCredentials `json:"emailCredentials"`
	Groq                 GroqConfig       `json:"groq"`
	Ollama               OllamaConfig     `json:"ollama"`
	Azure                AzureConfig      `json:"azure"`
	AutomaticRouting     AutomationConfig `json:"automaticRouting"`
	Departments          []Department     `json:"departments"`
	NotificationsEnabled bool             `json:"notificationsEnabled"`
	DarkMode             bool             `json:"darkMode"`
	Language             string           `json:"language"`
}

// DefaultSettings returns the configuration used until the backend copy is
// loaded.
func DefaultSettings() AppSettings {
	return AppSettings{
		Groq:                 GroqConfig{Model: "llama-3.1-8b-instant"},
		Ollama:               OllamaConfig{URL: "http://localhost:11434/v1", Model: "llama3.1"},
		AutomaticRouting:     AutomationConfig{Enabled: false, CheckInterval: 5},
		NotificationsEnabled: true,
		Language:             "en",
	}
}

// FindDepartment looks up a configured department by name.
func (s *AppSettings) FindDepartment(nome string) (Department, bool) {
	for _, d := range s.Departments {
		if d.Nome == nome {
			return d, true
		}
	}
	return Department{}, false
}
