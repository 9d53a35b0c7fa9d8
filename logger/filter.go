package logger

import "strings"

// DefaultMaskValue replaces sensitive data in log output.
const DefaultMaskValue = "***"

// FilterConfig defines which field names are masked in logs.
type FilterConfig struct {
	SensitiveFields []string
	MaskValue       string
}

// DefaultFilterConfig covers the credentials the SDK handles: the API
// token, the Authorization header it is sent in, and the email/password
// pair used for token exchange.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"token", "access_token",
			"authorization", "auth",
			"password", "passwd",
			"email",
			"secret", "api_key",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks sensitive values before they reach log output.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a filter with the given configuration,
// falling back to DefaultFilterConfig when nil.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString masks string values whose key names sensitive data.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitiveField(key) && value != "" {
		return f.config.MaskValue
	}
	return value
}

// FilterValue masks arbitrary values whose key names sensitive data.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	if f.isSensitiveField(key) && value != nil {
		return f.config.MaskValue
	}
	return value
}

// FilterFields returns a copy of fields with sensitive values masked.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return fields
	}
	filtered := make(map[string]any, len(fields))
	for k, v := range fields {
		filtered[k] = f.FilterValue(k, v)
	}
	return filtered
}

func (f *SensitiveDataFilter) isSensitiveField(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range f.config.SensitiveFields {
		if lower == field || strings.Contains(lower, field) {
			return true
		}
	}
	return false
}
