package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "surveyku_backend/internals/features/surveys/survey/dto"
	service "surveyku_backend/internals/features/surveys/survey/service"
	helper "surveyku_backend/internals/helpers"
)

type SurveyController struct {
	DB *gorm.DB
}

func NewSurveyController(db *gorm.DB) *SurveyController {
	return &SurveyController{DB: db}
}

// db mengikat DB ke context request (timeout dari middleware ikut ke query)
func (ctrl *SurveyController) db(c *fiber.Ctx) *gorm.DB {
	return ctrl.DB.WithContext(c.UserContext())
}

// GetAll handles GET /api/surveys (public)
func (ctrl *SurveyController) GetAll(c *fiber.Ctx) error {
	surveys, err := service.ListSurveys(ctrl.db(c))
	if err != nil {
		log.Printf("[ListSurveys] query failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil daftar survei")
	}
	return helper.JsonList(c, "ok", dto.FromModelList(surveys))
}

// GetByID handles GET /api/surveys/:id (public)
func (ctrl *SurveyController) GetByID(c *fiber.Ctx) error {
	surveyID, err := parseSurveyID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Survey ID tidak valid")
	}

	survey, err := service.GetSurvey(ctrl.db(c), surveyID)
	if err != nil {
		return ctrl.mapServiceError(c, "GetSurvey", err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(survey))
}

// Create handles POST /api/surveys (auth)
func (ctrl *SurveyController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateSurveyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	survey := req.ToModel()
	if err := service.CreateSurvey(ctrl.db(c), userID, survey); err != nil {
		return ctrl.mapServiceError(c, "CreateSurvey", err)
	}

	return helper.JsonCreated(c, "Survey created", dto.FromModel(survey))
}

// EditSurvey handles PATCH /api/surveys/:id/edit-survey (auth, owner)
func (ctrl *SurveyController) EditSurvey(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	surveyID, err := parseSurveyID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Survey ID tidak valid")
	}

	var req dto.EditSurveyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	survey, err := service.EditSurvey(ctrl.db(c), userID, surveyID, &req)
	if err != nil {
		return ctrl.mapServiceError(c, "EditSurvey", err)
	}
	return helper.JsonUpdated(c, "Survey updated", dto.FromModel(survey))
}

// Vote handles PATCH /api/surveys/:id/vote (auth, belum pernah vote)
func (ctrl *SurveyController) Vote(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	surveyID, err := parseSurveyID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Survey ID tidak valid")
	}

	var req dto.VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	// Permission gate (fast path). Keputusan final tetap di dalam
	// transaksi PerformVote — check ini bisa basi saat race.
	notVoted, err := service.HasNotVoted(ctrl.db(c), userID, surveyID)
	if err != nil {
		log.Printf("[VoteSurvey] permission check failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa status vote")
	}
	if !notVoted {
		return helper.JsonError(c, fiber.StatusForbidden, service.ErrAlreadyVoted.Error())
	}

	if err := service.PerformVote(ctrl.db(c), userID, surveyID, req.VotedAnswer); err != nil {
		return ctrl.mapServiceError(c, "VoteSurvey", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete handles DELETE /api/surveys/:id (auth, owner)
func (ctrl *SurveyController) Delete(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	surveyID, err := parseSurveyID(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Survey ID tidak valid")
	}

	if err := service.DeleteSurvey(ctrl.db(c), userID, surveyID); err != nil {
		return ctrl.mapServiceError(c, "DeleteSurvey", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseSurveyID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

func (ctrl *SurveyController) mapServiceError(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrSurveyNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSurveyFinished),
		errors.Is(err, service.ErrAlreadyVoted),
		errors.Is(err, service.ErrNotOwner):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidAnswer):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOwnerConflict):
		// pelanggaran invariant internal — log keras, balas 500
		log.Printf("[%s] INVARIANT VIOLATION: %v", op, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	default:
		log.Printf("[%s] err=%v", op, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
}
