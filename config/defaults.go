package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/pricepilot",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Assistant: AssistantConfig{
			Provider:              "assistant",
			BaseURL:               "http://localhost:8080",
			RequestTimeoutSeconds: 120,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# PricePilot System Configuration
# Location: ~/.config/pricepilot/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the workspace database and user config are stored
data_directory = "~/.local/share/pricepilot"
`
}

func GenerateUserConfigTemplate() string {
	return `# PricePilot User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io
# The API key is read from PRICEPILOT_API_KEY and never stored here.

[assistant]
# One of: assistant, openai, anthropic, openrouter, ollama
provider = "assistant"

# Base URL of the assistant service
base_url = "http://localhost:8080"

# Model name (ignored by the assistant service)
model = ""

# Give up on a response after this many seconds (0 waits indefinitely)
request_timeout_seconds = 120

# Optional greeting shown at the top of each conversation
greeting = ""

# Optional system prompt override for model providers
system_prompt = ""
`
}
