package http

import (
	"errors"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"folio/internal/catalog"
)

// ProjectsIndexAction lists all projects in display order.
func ProjectsIndexAction(ctx *cartridge.Context) error {
	projects, err := catalog.ListProjects(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to list projects", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list projects",
		})
	}
	return ctx.JSON(projects)
}

// SkillsIndexAction lists all skills in display order.
func SkillsIndexAction(ctx *cartridge.Context) error {
	skills, err := catalog.ListSkills(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to list skills", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list skills",
		})
	}
	return ctx.JSON(skills)
}

// ProjectCreateAction creates a project from the request body.
func ProjectCreateAction(ctx *cartridge.Context) error {
	var project catalog.Project
	if err := ctx.BodyParser(&project); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	project.ID = 0

	if err := catalog.CreateProject(ctx.Logger, ctx.DB(), &project); err != nil {
		ctx.Logger.Error("Failed to create project", slog.Any("error", err))
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(project)
}

// ProjectUpdateAction updates an existing project.
func ProjectUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project id"})
	}

	project, err := catalog.GetProjectByID(ctx.DB(), uint(id))
	if err != nil {
		return respondCatalogError(ctx, err, "Failed to load project")
	}

	if err := ctx.BodyParser(project); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	project.ID = uint(id)

	if err := catalog.UpdateProject(ctx.Logger, ctx.DB(), project); err != nil {
		ctx.Logger.Error("Failed to update project", slog.Any("error", err))
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(project)
}

// ProjectDeleteAction removes a project.
func ProjectDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project id"})
	}

	if err := catalog.DeleteProject(ctx.Logger, ctx.DB(), uint(id)); err != nil {
		return respondCatalogError(ctx, err, "Failed to delete project")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// SkillCreateAction creates a skill from the request body.
func SkillCreateAction(ctx *cartridge.Context) error {
	var skill catalog.Skill
	if err := ctx.BodyParser(&skill); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	skill.ID = 0

	if err := catalog.CreateSkill(ctx.Logger, ctx.DB(), &skill); err != nil {
		ctx.Logger.Error("Failed to create skill", slog.Any("error", err))
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(skill)
}

// SkillUpdateAction updates an existing skill.
func SkillUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid skill id"})
	}

	skill, err := catalog.GetSkillByID(ctx.DB(), uint(id))
	if err != nil {
		return respondCatalogError(ctx, err, "Failed to load skill")
	}

	if err := ctx.BodyParser(skill); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	skill.ID = uint(id)

	if err := catalog.UpdateSkill(ctx.Logger, ctx.DB(), skill); err != nil {
		ctx.Logger.Error("Failed to update skill", slog.Any("error", err))
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(skill)
}

// SkillDeleteAction removes a skill.
func SkillDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid skill id"})
	}

	if err := catalog.DeleteSkill(ctx.Logger, ctx.DB(), uint(id)); err != nil {
		return respondCatalogError(ctx, err, "Failed to delete skill")
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func respondCatalogError(ctx *cartridge.Context, err error, fallback string) error {
	var projectNotFound *catalog.ProjectNotFoundError
	var skillNotFound *catalog.SkillNotFoundError
	if errors.As(err, &projectNotFound) || errors.As(err, &skillNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Logger.Error(fallback, slog.Any("error", err))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fallback})
}
