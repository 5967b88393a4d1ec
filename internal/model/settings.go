package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SettingsID is the only row site_settings may hold.
const SettingsID = 1

// JSONObject is a free-form JSON object stored in a jsonb column.
type JSONObject map[string]any

func (o JSONObject) Value() (driver.Value, error) {
	if o == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o)
}

func (o *JSONObject) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*o = JSONObject{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan JSONObject: unsupported type %T", src)
	}
	obj, err := ParseJSONObject(raw)
	if err != nil {
		return err
	}
	*o = obj
	return nil
}

func (JSONObject) GormDataType() string { return "jsonb" }

// ParseJSONObject accepts only a JSON object; arrays, scalars and broken
// input are validation errors.
func ParseJSONObject(raw []byte) (JSONObject, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, invalid("Invalid JSON. Fix it before saving.")
	}
	obj := JSONObject{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, invalid("Invalid JSON. Fix it before saving.")
	}
	return obj, nil
}

// SiteSettings is the singleton row of global site configuration.
type SiteSettings struct {
	ID        int        `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Settings  JSONObject `json:"settings"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (SiteSettings) TableName() string { return "site_settings" }

func (s *SiteSettings) Normalize() error {
	s.ID = SettingsID
	if s.Settings == nil {
		s.Settings = JSONObject{}
	}
	return nil
}

// Stat is one hero counter.
type Stat struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// SiteContent is the typed view of the keys the public pages read.
type SiteContent struct {
	Hero struct {
		Name  string   `json:"name"`
		Roles []string `json:"roles"`
		Stats []Stat   `json:"stats"`
	} `json:"hero"`
	About struct {
		Heading string `json:"heading"`
		Body    string `json:"body"`
	} `json:"about"`
	Contact struct {
		Email        string `json:"email"`
		Location     string `json:"location"`
		Availability string `json:"availability"`
		ResponseTime string `json:"response_time"`
	} `json:"contact"`
}

// Content decodes the known keys. Unknown keys and mistyped values are
// ignored so a half-edited settings row never breaks the site.
func (o JSONObject) Content() SiteContent {
	var c SiteContent
	sections := map[string]any{"hero": &c.Hero, "about": &c.About, "contact": &c.Contact}
	for key, target := range sections {
		v, ok := o[key]
		if !ok {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			continue
		}
		_ = json.Unmarshal(raw, target)
	}
	return c
}

// SettingsTemplate is the suggested starter document shown in the dashboard.
func SettingsTemplate() JSONObject {
	return JSONObject{
		"hero": map[string]any{
			"name": "Your Name",
			"roles": []any{
				"Cybersecurity Student",
				"Network & Web Security Enthusiast",
				"Penetration Testing Learner",
				"Digital Forensics Analyst (Academic)",
				"CTF Participant",
			},
			"stats": []any{
				map[string]any{"label": "Years of Study", "value": 3},
				map[string]any{"label": "Security & Network Projects", "value": 20},
				map[string]any{"label": "Labs & Case Studies Completed", "value": 15},
			},
		},
		"about": map[string]any{
			"heading": "Securing Systems Through Knowledge, Practice, and Discipline",
		},
		"contact": map[string]any{
			"email":         "security@yourdomain.com",
			"location":      "Remote-friendly",
			"availability":  "Open to internships, research opportunities, and security projects",
			"response_time": "Usually within 24-48 hours",
		},
	}
}
