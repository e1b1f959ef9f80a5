package catalog

import (
	"fmt"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// SkillNotFoundError represents an error when a skill is not found.
type SkillNotFoundError struct {
	ID uint
}

func (e *SkillNotFoundError) Error() string {
	return fmt.Sprintf("skill not found: %d", e.ID)
}

// Skill represents a portfolio skill entry.
type Skill struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Category     string    `gorm:"index" json:"category"`
	DisplayOrder int       `gorm:"index;not null;default:0" json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ListSkills retrieves all skills in display order.
func ListSkills(db *gorm.DB) ([]Skill, error) {
	var skills []Skill
	if err := db.Order("display_order ASC, id ASC").Find(&skills).Error; err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return skills, nil
}

// GetSkillByID retrieves a skill by its ID.
func GetSkillByID(db *gorm.DB, id uint) (*Skill, error) {
	var skill Skill
	if err := db.First(&skill, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &SkillNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("unexpected error querying skill: %w", err)
	}
	return &skill, nil
}

// LookupSkillNames resolves skill ids to names. Ids with no catalog row are
// simply absent from the result map.
func LookupSkillNames(db *gorm.DB, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uint
		Name string
	}
	if err := db.Model(&Skill{}).Select("id", "name").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to look up skill names: %w", err)
	}

	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

// CreateSkill creates a new skill.
func CreateSkill(logger *slog.Logger, db *gorm.DB, skill *Skill) error {
	if skill.Name == "" {
		return fmt.Errorf("skill name cannot be empty")
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(skill).Error
	})
}

// UpdateSkill updates an existing skill.
func UpdateSkill(logger *slog.Logger, db *gorm.DB, skill *Skill) error {
	if skill.Name == "" {
		return fmt.Errorf("skill name cannot be empty")
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Save(skill).Error
	})
}

// DeleteSkill deletes a skill by its ID.
func DeleteSkill(logger *slog.Logger, db *gorm.DB, id uint) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		result := tx.Delete(&Skill{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &SkillNotFoundError{ID: id}
		}
		return nil
	})
}
