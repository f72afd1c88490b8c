package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"surveyku_backend/internals/configs"
	surveyRoute "surveyku_backend/internals/features/surveys/survey/route"
	authModel "surveyku_backend/internals/features/users/auth/model"
	userModel "surveyku_backend/internals/features/users/user/model"
	"surveyku_backend/internals/testutil"
)

const testSecret = "test-secret"

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	configs.JWTSecret = testSecret

	db := testutil.SetupTestDB(t)
	app := fiber.New()
	surveyRoute.SurveyRoutes(app, db)
	return app, db
}

func tokenFor(t *testing.T, user *userModel.UserModel) string {
	t.Helper()
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

// Skenario end-to-end dari kontrak API.
func TestSurveyEndpointsScenario(t *testing.T) {
	app, db := setupApp(t)
	userA := testutil.CreateTestUser(t, db, "alice")
	userB := testutil.CreateTestUser(t, db, "bob")
	tokenA := tokenFor(t, userA)
	tokenB := tokenFor(t, userB)

	// create tanpa login → 401
	createBody := fiber.Map{
		"survey_question":       "Test survey",
		"survey_answers":        []string{"1", "2"},
		"survey_finishing_date": time.Now().Add(365 * 24 * time.Hour).Format(time.RFC3339),
	}
	if resp := doJSON(t, app, fiber.MethodPost, "/api/surveys/", "", createBody); resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("create unauthenticated status = %d, want 401", resp.StatusCode)
	}

	// create oleh A → 201
	resp := doJSON(t, app, fiber.MethodPost, "/api/surveys/", tokenA, createBody)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	created := decodeData(t, resp)
	surveyID, _ := created["survey_id"].(string)
	if surveyID == "" {
		t.Fatal("created survey has no survey_id")
	}

	// list publik → 200, survei muncul
	resp = doJSON(t, app, fiber.MethodGet, "/api/surveys/", "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	// A vote "1" → 204
	voteBody := fiber.Map{"voted_answer": "1"}
	if resp := doJSON(t, app, fiber.MethodPatch, "/api/surveys/"+surveyID+"/vote", tokenA, voteBody); resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("first vote status = %d, want 204", resp.StatusCode)
	}

	// A vote lagi → 403
	if resp := doJSON(t, app, fiber.MethodPatch, "/api/surveys/"+surveyID+"/vote", tokenA, voteBody); resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("second vote status = %d, want 403", resp.StatusCode)
	}

	// B vote "1" → 204
	if resp := doJSON(t, app, fiber.MethodPatch, "/api/surveys/"+surveyID+"/vote", tokenB, voteBody); resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("vote by B status = %d, want 204", resp.StatusCode)
	}

	// detail publik → tally {"1":2,"2":0}
	resp = doJSON(t, app, fiber.MethodGet, "/api/surveys/"+surveyID, "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("detail status = %d, want 200", resp.StatusCode)
	}
	detail := decodeData(t, resp)
	answers, _ := detail["survey_answers"].(map[string]any)
	if answers["1"] != float64(2) || answers["2"] != float64(0) {
		t.Errorf("tally = %v, want {1:2 2:0}", answers)
	}

	// edit oleh B (bukan owner) → 403
	editBody := fiber.Map{"survey_is_finished": true}
	if resp := doJSON(t, app, fiber.MethodPatch, "/api/surveys/"+surveyID+"/edit-survey", tokenB, editBody); resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("edit by non-owner status = %d, want 403", resp.StatusCode)
	}

	// delete oleh B → 403; delete oleh A → 204; GET setelahnya → 404
	if resp := doJSON(t, app, fiber.MethodDelete, "/api/surveys/"+surveyID, tokenB, nil); resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("delete by non-owner status = %d, want 403", resp.StatusCode)
	}
	if resp := doJSON(t, app, fiber.MethodDelete, "/api/surveys/"+surveyID, tokenA, nil); resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("delete by owner status = %d, want 204", resp.StatusCode)
	}
	if resp := doJSON(t, app, fiber.MethodGet, "/api/surveys/"+surveyID, "", nil); resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateSurveyValidation(t *testing.T) {
	app, db := setupApp(t)
	user := testutil.CreateTestUser(t, db, "alice")
	token := tokenFor(t, user)

	decodeError := func(resp *http.Response) (string, map[string]string) {
		t.Helper()
		defer resp.Body.Close()
		var body struct {
			Message string            `json:"message"`
			Errors  map[string]string `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		return body.Message, body.Errors
	}

	// jawaban duplikat → 400, pesan aturan custom utuh
	body := fiber.Map{
		"survey_question":       "dup",
		"survey_answers":        []string{"1", "1"},
		"survey_finishing_date": time.Now().Add(time.Hour).Format(time.RFC3339),
	}
	resp := doJSON(t, app, fiber.MethodPost, "/api/surveys/", token, body)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("duplicate answers status = %d, want 400", resp.StatusCode)
	}
	if msg, _ := decodeError(resp); msg != "The answers must be unique!" {
		t.Errorf("message = %q, want the duplicate-answers message", msg)
	}

	// field wajib hilang → 400 dengan detail per field
	resp = doJSON(t, app, fiber.MethodPost, "/api/surveys/", token, fiber.Map{
		"survey_answers": []string{"1", "2"},
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing fields status = %d, want 400", resp.StatusCode)
	}
	if _, fields := decodeError(resp); len(fields) == 0 {
		t.Error("expected field-level validation detail, got none")
	}
}

// Context request (dengan timeout/cancel) harus sampai ke query database.
func TestRequestContextReachesQueries(t *testing.T) {
	configs.JWTSecret = testSecret
	db := testutil.SetupTestDB(t)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	surveyRoute.SurveyRoutes(app, db)

	resp := doJSON(t, app, fiber.MethodGet, "/api/surveys/", "", nil)
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("list with canceled context status = %d, want 500", resp.StatusCode)
	}
}

// Entry blacklist yang masa berlakunya sudah lewat tidak boleh menolak
// token yang masih valid.
func TestStaleBlacklistEntryIgnored(t *testing.T) {
	app, db := setupApp(t)
	user := testutil.CreateTestUser(t, db, "alice")
	token := tokenFor(t, user)

	stale := authModel.TokenBlacklist{Token: token, ExpiredAt: time.Now().Add(-time.Minute)}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("seed stale blacklist entry: %v", err)
	}

	body := fiber.Map{
		"survey_question":       "Test survey",
		"survey_answers":        []string{"1", "2"},
		"survey_finishing_date": time.Now().Add(time.Hour).Format(time.RFC3339),
	}
	if resp := doJSON(t, app, fiber.MethodPost, "/api/surveys/", token, body); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create with stale blacklist entry status = %d, want 201", resp.StatusCode)
	}
}

func TestVoteOnExpiredSurvey(t *testing.T) {
	app, db := setupApp(t)
	owner := testutil.CreateTestUser(t, db, "alice")
	voter := testutil.CreateTestUser(t, db, "bob")
	survey := testutil.CreateTestSurvey(t, db, owner.ID, "expired", []string{"1", "2"},
		time.Now().Add(-time.Hour))

	resp := doJSON(t, app, fiber.MethodPatch, "/api/surveys/"+survey.SurveyID.String()+"/vote",
		tokenFor(t, voter), fiber.Map{"voted_answer": "1"})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("vote on expired status = %d, want 403", resp.StatusCode)
	}
}

func TestVoteUnknownLabelHTTP(t *testing.T) {
	app, db := setupApp(t)
	owner := testutil.CreateTestUser(t, db, "alice")
	voter := testutil.CreateTestUser(t, db, "bob")
	survey := testutil.CreateTestSurvey(t, db, owner.ID, "q", []string{"1", "2"},
		time.Now().Add(time.Hour))

	resp := doJSON(t, app, fiber.MethodPatch, "/api/surveys/"+survey.SurveyID.String()+"/vote",
		tokenFor(t, voter), fiber.Map{"voted_answer": "9"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("vote with unknown label status = %d, want 400", resp.StatusCode)
	}
}
