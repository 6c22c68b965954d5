package site

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Profile is the practitioner's static bilingual content, maintained as a
// YAML file alongside the deployment rather than in the database.
type Profile struct {
	NameEN string `yaml:"name_en" json:"name_en"`
	NameNP string `yaml:"name_np" json:"name_np"`

	TitleEN string `yaml:"title_en" json:"title_en"`
	TitleNP string `yaml:"title_np" json:"title_np"`

	BioEN string `yaml:"bio_en" json:"bio_en"`
	BioNP string `yaml:"bio_np" json:"bio_np"`

	Expertise []ExpertiseItem `yaml:"expertise" json:"expertise"`

	Contact ContactInfo `yaml:"contact" json:"contact"`
}

// ExpertiseItem is one specialty shown on the expertise page.
type ExpertiseItem struct {
	NameEN        string `yaml:"name_en" json:"name_en"`
	NameNP        string `yaml:"name_np" json:"name_np"`
	DescriptionEN string `yaml:"description_en" json:"description_en"`
	DescriptionNP string `yaml:"description_np" json:"description_np"`
}

// ContactInfo is the clinic's public contact block.
type ContactInfo struct {
	Email     string `yaml:"email" json:"email"`
	Phone     string `yaml:"phone" json:"phone"`
	AddressEN string `yaml:"address_en" json:"address_en"`
	AddressNP string `yaml:"address_np" json:"address_np"`
}

// LoadProfile reads and validates the profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}

	if profile.NameEN == "" {
		return nil, fmt.Errorf("profile %s: name_en is required", path)
	}
	for i, e := range profile.Expertise {
		if e.NameEN == "" {
			return nil, fmt.Errorf("profile %s: expertise[%d].name_en is required", path, i)
		}
	}

	return &profile, nil
}
