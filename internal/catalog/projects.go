// Package catalog holds the portfolio content the analytics facets join
// against: projects and skills.
package catalog

import (
	"fmt"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// ProjectNotFoundError represents an error when a project is not found.
type ProjectNotFoundError struct {
	ID uint
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project not found: %d", e.ID)
}

// Project represents a portfolio project entry.
type Project struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	RepoURL      string    `json:"repoUrl"`
	Featured     bool      `gorm:"not null;default:false" json:"featured"`
	DisplayOrder int       `gorm:"index;not null;default:0" json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ListProjects retrieves all projects in display order.
func ListProjects(db *gorm.DB) ([]Project, error) {
	var projects []Project
	if err := db.Order("display_order ASC, id ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProjectByID retrieves a project by its ID.
func GetProjectByID(db *gorm.DB, id uint) (*Project, error) {
	var project Project
	if err := db.First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ProjectNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("unexpected error querying project: %w", err)
	}
	return &project, nil
}

// LookupProjectTitles resolves project ids to titles. Ids with no catalog
// row are simply absent from the result map.
func LookupProjectTitles(db *gorm.DB, ids []uint) (map[uint]string, error) {
	titles := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	var rows []struct {
		ID    uint
		Title string
	}
	if err := db.Model(&Project{}).Select("id", "title").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to look up project titles: %w", err)
	}

	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}

// CreateProject creates a new project.
func CreateProject(logger *slog.Logger, db *gorm.DB, project *Project) error {
	if project.Title == "" {
		return fmt.Errorf("project title cannot be empty")
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(project).Error
	})
}

// UpdateProject updates an existing project.
func UpdateProject(logger *slog.Logger, db *gorm.DB, project *Project) error {
	if project.Title == "" {
		return fmt.Errorf("project title cannot be empty")
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Save(project).Error
	})
}

// DeleteProject deletes a project by its ID.
func DeleteProject(logger *slog.Logger, db *gorm.DB, id uint) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		result := tx.Delete(&Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &ProjectNotFoundError{ID: id}
		}
		return nil
	})
}
