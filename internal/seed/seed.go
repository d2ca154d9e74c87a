package seed

import (
	"fmt"
	"log"

	"caseboard/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumClinicians      int
	NumCases           int
	MaxCommentsPerCase int
	MaxDays            int
	ShouldClean        bool
	// SkipBcrypt stores a plaintext placeholder password instead of a hash.
	// Much faster for large seeds; dev only.
	SkipBcrypt bool
	// DryRun builds entities without writing to the database.
	DryRun bool
}

// Seed populates the database with demo clinicians, cases, and comments.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d clinicians and %d cases...", opts.NumClinicians, opts.NumCases)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	clinicians := make([]*models.User, 0, opts.NumClinicians)
	for i := 0; i < opts.NumClinicians; i++ {
		user, err := f.CreateClinician()
		if err != nil {
			// Username collisions are possible with generated handles; skip and move on.
			continue
		}
		clinicians = append(clinicians, user)
	}
	if len(clinicians) == 0 {
		return fmt.Errorf("no clinicians could be created")
	}
	log.Printf("created %d clinicians", len(clinicians))

	cases := make([]*models.Post, 0, opts.NumCases)
	for i := 0; i < opts.NumCases; i++ {
		author := clinicians[f.rng.Intn(len(clinicians))]
		cases = append(cases, f.BuildCase(author))
	}
	if err := f.CreateCasesBatch(cases); err != nil {
		return fmt.Errorf("failed to create cases: %w", err)
	}
	log.Printf("created %d cases", len(cases))

	maxComments := opts.MaxCommentsPerCase
	if maxComments <= 0 {
		maxComments = 5
	}
	comments := make([]*models.Comment, 0, len(cases)*maxComments/2)
	for _, post := range cases {
		n := f.rng.Intn(maxComments + 1)
		for j := 0; j < n; j++ {
			author := clinicians[f.rng.Intn(len(clinicians))]
			comments = append(comments, f.BuildComment(post, author))
		}
	}
	if err := f.CreateCommentsBatch(comments); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("created %d comments", len(comments))

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE comments, posts, users RESTART IDENTITY CASCADE;`).Error
	}
	// sqlite and others: delete in FK order
	for _, table := range []string{"comments", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
