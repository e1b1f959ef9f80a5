package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/catalog"
	"folio/internal/testsupport"
)

func TestProjects(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	t.Run("list returns projects in display order", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		second := &catalog.Project{Title: "Side Project", DisplayOrder: 2}
		first := &catalog.Project{Title: "Flagship", DisplayOrder: 1}
		require.NoError(t, catalog.CreateProject(logger, db, second))
		require.NoError(t, catalog.CreateProject(logger, db, first))

		projects, err := catalog.ListProjects(db)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "Flagship", projects[0].Title)
		assert.Equal(t, "Side Project", projects[1].Title)
	})

	t.Run("ties on display order break by id", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		older := &catalog.Project{Title: "Older"}
		newer := &catalog.Project{Title: "Newer"}
		require.NoError(t, catalog.CreateProject(logger, db, older))
		require.NoError(t, catalog.CreateProject(logger, db, newer))

		projects, err := catalog.ListProjects(db)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "Older", projects[0].Title)
	})

	t.Run("get by id", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		created := testsupport.CreateTestProject(t, db, "Flagship")

		project, err := catalog.GetProjectByID(db, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Flagship", project.Title)

		_, err = catalog.GetProjectByID(db, created.ID+100)
		var notFound *catalog.ProjectNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("create rejects an empty title", func(t *testing.T) {
		assert.Error(t, catalog.CreateProject(logger, db, &catalog.Project{}))
	})

	t.Run("update persists changes", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		project := testsupport.CreateTestProject(t, db, "Before")
		project.Title = "After"
		project.Featured = true
		require.NoError(t, catalog.UpdateProject(logger, db, project))

		reloaded, err := catalog.GetProjectByID(db, project.ID)
		require.NoError(t, err)
		assert.Equal(t, "After", reloaded.Title)
		assert.True(t, reloaded.Featured)
	})

	t.Run("delete removes the row and reports missing ids", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		project := testsupport.CreateTestProject(t, db, "Doomed")
		require.NoError(t, catalog.DeleteProject(logger, db, project.ID))

		var notFound *catalog.ProjectNotFoundError
		err := catalog.DeleteProject(logger, db, project.ID)
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("title lookup skips missing ids", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		kept := testsupport.CreateTestProject(t, db, "Kept")

		titles, err := catalog.LookupProjectTitles(db, []uint{kept.ID, kept.ID + 50})
		require.NoError(t, err)
		require.Len(t, titles, 1)
		assert.Equal(t, "Kept", titles[kept.ID])
	})

	t.Run("title lookup with no ids", func(t *testing.T) {
		titles, err := catalog.LookupProjectTitles(db, nil)
		require.NoError(t, err)
		assert.Empty(t, titles)
	})
}

func TestSkills(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	t.Run("list returns skills in display order", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		require.NoError(t, catalog.CreateSkill(logger, db, &catalog.Skill{Name: "Kubernetes", Category: "infra", DisplayOrder: 2}))
		require.NoError(t, catalog.CreateSkill(logger, db, &catalog.Skill{Name: "Go", Category: "backend", DisplayOrder: 1}))

		skills, err := catalog.ListSkills(db)
		require.NoError(t, err)
		require.Len(t, skills, 2)
		assert.Equal(t, "Go", skills[0].Name)
		assert.Equal(t, "Kubernetes", skills[1].Name)
	})

	t.Run("create rejects an empty name", func(t *testing.T) {
		assert.Error(t, catalog.CreateSkill(logger, db, &catalog.Skill{}))
	})

	t.Run("get update delete round trip", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		skill := testsupport.CreateTestSkill(t, db, "Go")

		found, err := catalog.GetSkillByID(db, skill.ID)
		require.NoError(t, err)
		assert.Equal(t, "Go", found.Name)

		found.Category = "backend"
		require.NoError(t, catalog.UpdateSkill(logger, db, found))

		reloaded, err := catalog.GetSkillByID(db, skill.ID)
		require.NoError(t, err)
		assert.Equal(t, "backend", reloaded.Category)

		require.NoError(t, catalog.DeleteSkill(logger, db, skill.ID))

		var notFound *catalog.SkillNotFoundError
		_, err = catalog.GetSkillByID(db, skill.ID)
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("name lookup skips missing ids", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		kept := testsupport.CreateTestSkill(t, db, "Go")

		names, err := catalog.LookupSkillNames(db, []uint{kept.ID, kept.ID + 50})
		require.NoError(t, err)
		require.Len(t, names, 1)
		assert.Equal(t, "Go", names[kept.ID])
	})
}
