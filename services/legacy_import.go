package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"editorial-platform-api/config"
	"editorial-platform-api/models"
	"editorial-platform-api/utils"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"gorm.io/gorm"
)

// LegacyPost is one row of the legacy CMS export table. The old system
// stored raw HTML; the importer extracts plain text and republishes it as a
// submission with a synthesized audit trail.
type LegacyPost struct {
	LegacyID    int        `gorm:"primaryKey;column:legacy_id"`
	AuthorEmail string     `gorm:"column:author_email"`
	Title       string     `gorm:"column:title"`
	HTMLBody    string     `gorm:"column:html_body"`
	PostedAt    *time.Time `gorm:"column:posted_at"`
	ImportedAt  *time.Time `gorm:"column:imported_at"`
}

func (LegacyPost) TableName() string { return "legacy_posts" }

// LegacyImportInput controls one importer run.
type LegacyImportInput struct {
	Limit      int
	DryRun     bool
	ImporterID int
}

// LegacyImportSummary reports what a run did.
type LegacyImportSummary struct {
	PostsProcessed int
	PostsImported  int
	PostsSkipped   int
	PostsFailed    int
}

// LegacyImportService migrates legacy HTML posts into published
// submissions.
type LegacyImportService struct {
	db       *gorm.DB
	registry *StatusRegistry
}

func NewLegacyImportService(db *gorm.DB, registry *StatusRegistry) *LegacyImportService {
	return &LegacyImportService{db: db, registry: registry}
}

// Run imports pending legacy posts. Each post is handled independently;
// a failed post is logged and counted but never aborts the run.
func (s *LegacyImportService) Run(ctx context.Context, input LegacyImportInput) (*LegacyImportSummary, error) {
	query := s.db.WithContext(ctx).Where("imported_at IS NULL").Order("legacy_id ASC")
	if input.Limit > 0 {
		query = query.Limit(input.Limit)
	}

	var posts []LegacyPost
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to load legacy posts: %w", err)
	}

	summary := &LegacyImportSummary{}
	for i := range posts {
		summary.PostsProcessed++
		if err := s.importPost(ctx, &posts[i], input); err != nil {
			summary.PostsFailed++
			log.Printf("legacy-import: post %d failed: %v", posts[i].LegacyID, err)
			continue
		}
		if input.DryRun {
			summary.PostsSkipped++
		} else {
			summary.PostsImported++
		}
	}
	return summary, nil
}

func (s *LegacyImportService) importPost(ctx context.Context, post *LegacyPost, input LegacyImportInput) error {
	title := strings.TrimSpace(post.Title)
	if title == "" {
		return fmt.Errorf("legacy post has no title")
	}

	body := ExtractText(post.HTMLBody)
	if body == "" {
		return fmt.Errorf("legacy post has no extractable text")
	}

	var author models.User
	authorID := input.ImporterID
	err := s.db.WithContext(ctx).
		Where("email = ? AND delete_at IS NULL", post.AuthorEmail).
		First(&author).Error
	if err == nil {
		authorID = author.UserID
	}

	if input.DryRun {
		return nil
	}

	slug := utils.UniqueSlug(title, func(candidate string) bool {
		var count int64
		s.db.Model(&models.Submission{}).Where("slug = ?", candidate).Count(&count)
		return count > 0
	})

	now := time.Now()
	publishedAt := post.PostedAt
	if publishedAt == nil {
		publishedAt = &now
	}

	submission := models.Submission{
		SubmissionNumber: uuid.NewString(),
		UserID:           authorID,
		Title:            title,
		Body:             body,
		Excerpt:          excerptOf(body),
		Slug:             slug,
		Status:           StatusPublished,
		PublishedAt:      publishedAt,
		Version:          1,
		CreateAt:         &now,
		UpdateAt:         &now,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}

		action, ok := s.registry.ActionFor(StatusPublished)
		if !ok {
			return unmappedAction(StatusPublished)
		}

		// Synthesized trail: the imported work enters history already
		// published, attributed to the importing operator.
		entry := models.SubmissionHistoryEntry{
			SubmissionID:   submission.SubmissionID,
			Action:         action,
			Status:         StatusPublished,
			ActingUserID:   input.ImporterID,
			ActingUserRole: RoleAdmin,
			Notes:          fmt.Sprintf("imported from legacy post %d", post.LegacyID),
			CreatedAt:      now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Model(&LegacyPost{}).
			Where("legacy_id = ?", post.LegacyID).
			Update("imported_at", now).Error
	})
}

// ExtractText strips markup from legacy HTML, keeping visible text with
// single spaces between fragments. Script and style contents are dropped.
func ExtractText(markup string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	var parts []string
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text != "" {
				parts = append(parts, text)
			}
		}
	}
}

const excerptMaxLen = 200

func excerptOf(body string) string {
	if len(body) <= excerptMaxLen {
		return body
	}
	cut := body[:excerptMaxLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

// DefaultLegacyImportService builds the importer on the global connection.
func DefaultLegacyImportService() (*LegacyImportService, error) {
	registry, err := LoadStatusRegistry(false)
	if err != nil {
		return nil, err
	}
	return NewLegacyImportService(config.DB, registry), nil
}
