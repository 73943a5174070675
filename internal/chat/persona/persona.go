// Package persona holds the assistant instructions and the service menu the
// conversation widget offers. Values load from a YAML file with embedded
// defaults so the widget works out of the box.
package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"portfolio_backend/platform/i18n"
)

// ServiceCategory is one entry of the fixed five-service menu.
type ServiceCategory struct {
	Key     string `yaml:"key"`
	TitleEN string `yaml:"titleEn"`
	TitleAR string `yaml:"titleAr"`
}

// Title returns the localized display title.
func (c ServiceCategory) Title(lang i18n.Lang) string {
	if lang == i18n.Arabic && c.TitleAR != "" {
		return c.TitleAR
	}
	return c.TitleEN
}

// Config carries the persona instructions and the service menu.
type Config struct {
	ServiceDetail string            `yaml:"serviceDetail"`
	Brainstorm    string            `yaml:"brainstorm"`
	Consultation  string            `yaml:"consultation"`
	Services      []ServiceCategory `yaml:"services"`
}

// FindService returns the menu entry with the given key.
func (c Config) FindService(key string) (ServiceCategory, bool) {
	for _, svc := range c.Services {
		if svc.Key == key {
			return svc, true
		}
	}
	return ServiceCategory{}, false
}

// ServiceTitles returns the localized titles of the full menu, in menu order.
func (c Config) ServiceTitles(lang i18n.Lang) []string {
	titles := make([]string, 0, len(c.Services))
	for _, svc := range c.Services {
		titles = append(titles, svc.Title(lang))
	}
	return titles
}

// Default returns the built-in personas and service menu.
func Default() Config {
	return Config{
		ServiceDetail: `You are a persuasive but honest sales assistant for a freelance
automation consultant. Describe the requested service in a compelling way.
Use the leaky-bucket analogy: a business without automation is a bucket with
holes, leaking time and money with every manual step, and this service plugs
those holes. Keep it concrete and under 150 words. Reply in the language the
visitor used.`,
		Brainstorm: `You are an encouraging product consultant. The visitor shares a
business or automation idea. Validate the idea warmly, give concrete
constructive feedback on how to make it work, and flag one or two realistic
risks to watch for. Respond in exactly one paragraph, no lists or headings.
Reply in the language the visitor used.`,
		Consultation: `You are a solutions consultant for a freelance automation
developer. The visitor describes a business problem. Analyse the problem,
propose a practical solution, and suggest which of the offered services fit.
Suggested services must be chosen from the provided menu only. Reply in the
language the visitor used, in the requested JSON shape.`,
		Services: []ServiceCategory{
			{Key: "n8n-automation", TitleEN: "n8n Process Automation", TitleAR: "أتمتة العمليات عبر n8n"},
			{Key: "telegram-bots", TitleEN: "Telegram Bot Development", TitleAR: "تطوير بوتات تيليجرام"},
			{Key: "web-development", TitleEN: "Websites & Landing Pages", TitleAR: "تطوير المواقع وصفحات الهبوط"},
			{Key: "api-integration", TitleEN: "API & Systems Integration", TitleAR: "تكامل الأنظمة وواجهات البرمجة"},
			{Key: "ai-assistants", TitleEN: "AI Assistants & Chatbots", TitleAR: "المساعدات الذكية وروبوتات المحادثة"},
		},
	}
}

// Load reads the persona file at path, overlaying the embedded defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read persona file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse persona file: %w", err)
	}
	if len(cfg.Services) == 0 {
		cfg.Services = Default().Services
	}
	return cfg, nil
}
