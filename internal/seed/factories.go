// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math/rand"
	"time"

	"caseboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var (
	specialties = []string{
		"cardiology", "pulmonology", "neurology", "orthopedics", "dermatology",
		"radiology", "nephrology", "oncology", "rheumatology", "gastroenterology",
	}

	presentations = []string{
		"presenting with acute chest pain radiating to the left arm",
		"with a three-week history of progressive dyspnea on exertion",
		"admitted after a syncopal episode at home",
		"with persistent fever of unknown origin",
		"presenting with unilateral leg swelling and erythema",
		"with new-onset seizures and no prior neurological history",
		"with chronic lower back pain refractory to conservative management",
		"presenting with a painless enlarging neck mass",
		"with recurrent abdominal pain and unintentional weight loss",
		"found to have an incidental pulmonary nodule on routine imaging",
	}

	workups = []string{
		"Initial labs were unremarkable apart from a mildly elevated CRP.",
		"CT imaging attached; note the finding in the attached slice.",
		"Echocardiogram showed preserved ejection fraction.",
		"MRI demonstrates the lesion discussed below.",
		"Plain radiograph on admission attached for review.",
		"Ultrasound findings attached; differential remains broad.",
	}

	questions = []string{
		"Would you pursue biopsy at this stage or repeat imaging in 3 months?",
		"Interested in how others would manage anticoagulation here.",
		"Is there a role for conservative management given the comorbidities?",
		"Curious whether anyone has seen a similar presentation.",
		"What would be your next diagnostic step?",
	}

	commentLines = []string{
		"Have you considered repeating the imaging with contrast?",
		"We had a similar case last year; biopsy was diagnostic.",
		"I would involve the multidisciplinary board before proceeding.",
		"The attached image is suggestive but not conclusive.",
		"Agree with conservative management given the history.",
		"Any family history worth noting here?",
		"Would repeat labs in a week and reassess.",
	}
)

// ClinicianUsername generates a plausible professional handle like "dr_chen412".
func (f *Factory) ClinicianUsername() string {
	last := gofakeit.LastName()
	formats := []string{"dr_%s%d", "dr%s%d", "%s_md%d"}
	format := formats[f.rng.Intn(len(formats))]
	return fmt.Sprintf(format, toHandle(last), f.rng.Intn(900)+100)
}

// CreateClinician constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateClinician(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: f.ClinicianUsername(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateClinician: %s", user.Username)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildCase constructs a case post authored by the given user but does not
// persist it. Useful for batching.
func (f *Factory) BuildCase(author *models.User, overrides ...func(*models.Post)) *models.Post {
	age := f.rng.Intn(70) + 18
	sex := []string{"male", "female"}[f.rng.Intn(2)]
	specialty := specialties[f.rng.Intn(len(specialties))]

	description := fmt.Sprintf("%dyo %s %s. %s %s [%s]",
		age, sex,
		presentations[f.rng.Intn(len(presentations))],
		workups[f.rng.Intn(len(workups))],
		questions[f.rng.Intn(len(questions))],
		specialty,
	)

	post := &models.Post{
		AuthorID:    author.ID,
		AuthorName:  author.Username,
		Description: description,
		Image:       f.CaseImage(),
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreateCasesBatch persists multiple case posts in a single DB call when possible.
func (f *Factory) CreateCasesBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateCasesBatch: %d cases (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// BuildComment constructs a comment on the given post but does not persist it.
func (f *Factory) BuildComment(post *models.Post, author *models.User) *models.Comment {
	return &models.Comment{
		PostID:     post.ID,
		AuthorID:   author.ID,
		AuthorName: author.Username,
		Content:    commentLines[f.rng.Intn(len(commentLines))],
		CreatedAt:  post.CreatedAt.Add(time.Duration(f.rng.Intn(72)+1) * time.Hour),
	}
}

// CreateCommentsBatch persists multiple comments in a single DB call.
func (f *Factory) CreateCommentsBatch(comments []*models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateCommentsBatch: %d comments (no DB write)", len(comments))
		return nil
	}
	return f.db.Create(&comments).Error
}

// CaseImage renders a small synthetic PNG so seeded cases pass the same image
// validation as real uploads.
func (f *Factory) CaseImage() []byte {
	w, h := 64, 64
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	base := color.RGBA{
		R: uint8(f.rng.Intn(200) + 30),
		G: uint8(f.rng.Intn(200) + 30),
		B: uint8(f.rng.Intn(200) + 30),
		A: 255,
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := base
			if (x/8+y/8)%2 == 0 {
				c = color.RGBA{R: base.R / 2, G: base.G / 2, B: base.B / 2, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// png.Encode on an in-memory RGBA cannot realistically fail
		log.Printf("seed image encode failed: %v", err)
		return nil
	}
	return buf.Bytes()
}

func toHandle(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	if len(out) == 0 {
		return "doe"
	}
	return string(out)
}
