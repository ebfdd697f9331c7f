package util

import (
	"encoding/json"
	"fmt"
	"os"
)

func Pprint(i interface{}) {
	bytes, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(bytes))
}

func FloatPointer(f float64) *float64 {
	return &f
}

// Secrets holds credentials and LLM defaults. Request-level llmSettings
// override these per call.
type Secrets struct {
	LLM LLMSecrets `json:"llm"`
}

type LLMSecrets struct {
	ApiKey      string  `json:"apiKey"`
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	BaseUrl     string  `json:"baseUrl"`
	Temperature float64 `json:"temperature"`
}

// LoadSecrets reads secrets.json when present and falls back to env
// vars. A missing file is not an error - the service runs without LLM
// credentials and uses the template narrative.
func LoadSecrets() (*Secrets, error) {
	secretsFile := "secrets.json"
	if f := os.Getenv("QUANTREPORT_SECRETS_FILE"); f != "" {
		secretsFile = f
	}

	secrets := &Secrets{}
	contents, err := os.ReadFile(secretsFile)
	if err == nil {
		if err := json.Unmarshal(contents, secrets); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", secretsFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", secretsFile, err)
	}

	if secrets.LLM.ApiKey == "" {
		secrets.LLM.ApiKey = os.Getenv("OPENAI_API_KEY")
	}
	if secrets.LLM.ApiKey == "" {
		secrets.LLM.ApiKey = os.Getenv("DEEPSEEK_API_KEY")
		if secrets.LLM.ApiKey != "" && secrets.LLM.Provider == "" {
			secrets.LLM.Provider = "deepseek"
		}
	}

	return secrets, nil
}
