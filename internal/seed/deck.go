package seed

import (
	"errors"
	"fmt"
	"os"

	"caseboard/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Deck is a curated, reproducible demo dataset loaded from a YAML file.
// Unlike the random seeder it produces the same accounts and cases every
// run, which keeps demo walkthroughs and screenshots stable.
type Deck struct {
	Clinicians []DeckClinician `yaml:"clinicians"`
	Cases      []DeckCase      `yaml:"cases"`
}

// DeckClinician is a demo account with a known password.
type DeckClinician struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// DeckCase is a demo case optionally seeded with comments.
type DeckCase struct {
	Author      string        `yaml:"author"`
	Description string        `yaml:"description"`
	ImagePath   string        `yaml:"image_path"`
	Comments    []DeckComment `yaml:"comments"`
}

// DeckComment is a demo comment attributed to a deck clinician.
type DeckComment struct {
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
}

// LoadDeck parses a deck YAML file.
func LoadDeck(path string) (*Deck, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	var deck Deck
	if err := yaml.Unmarshal(raw, &deck); err != nil {
		return nil, fmt.Errorf("parse deck file: %w", err)
	}
	if err := deck.validate(); err != nil {
		return nil, err
	}
	return &deck, nil
}

func (d *Deck) validate() error {
	known := make(map[string]bool, len(d.Clinicians))
	for _, c := range d.Clinicians {
		if c.Username == "" || c.Password == "" {
			return fmt.Errorf("deck clinician requires both username and password")
		}
		if known[c.Username] {
			return fmt.Errorf("duplicate deck clinician %q", c.Username)
		}
		known[c.Username] = true
	}
	for i, cs := range d.Cases {
		if cs.Description == "" {
			return fmt.Errorf("deck case %d has no description", i)
		}
		if !known[cs.Author] {
			return fmt.Errorf("deck case %d references unknown author %q", i, cs.Author)
		}
		for _, cm := range cs.Comments {
			if !known[cm.Author] {
				return fmt.Errorf("deck case %d comment references unknown author %q", i, cm.Author)
			}
		}
	}
	return nil
}

// SeedDeck persists a deck into the database. Existing rows are left alone;
// deck accounts that already exist are reused by username.
func SeedDeck(db *gorm.DB, deck *Deck) error {
	f := NewFactory(db, Options{})

	users := make(map[string]*models.User, len(deck.Clinicians))
	for _, c := range deck.Clinicians {
		var existing models.User
		err := db.Where("username = ?", c.Username).First(&existing).Error
		switch {
		case err == nil:
			users[c.Username] = &existing
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("look up deck clinician %q: %w", c.Username, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %q: %w", c.Username, err)
		}
		user := &models.User{Username: c.Username, Password: string(hashed)}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("create deck clinician %q: %w", c.Username, err)
		}
		users[c.Username] = user
	}

	for i, cs := range deck.Cases {
		author := users[cs.Author]

		image, err := deckImage(f, cs.ImagePath)
		if err != nil {
			return fmt.Errorf("deck case %d image: %w", i, err)
		}

		post := &models.Post{
			AuthorID:    author.ID,
			AuthorName:  author.Username,
			Description: cs.Description,
			Image:       image,
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("create deck case %d: %w", i, err)
		}

		for _, cm := range cs.Comments {
			commentAuthor := users[cm.Author]
			comment := &models.Comment{
				PostID:     post.ID,
				AuthorID:   commentAuthor.ID,
				AuthorName: commentAuthor.Username,
				Content:    cm.Content,
			}
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("create deck comment on case %d: %w", i, err)
			}
		}
	}

	return nil
}

func deckImage(f *Factory, path string) ([]byte, error) {
	if path == "" {
		return f.CaseImage(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
