// Package api exposes the admin wizard JSON API over fiber.
package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pollwright/surveywizard/internal/builder"
	"github.com/pollwright/surveywizard/internal/catalog"
	"github.com/pollwright/surveywizard/internal/core/config"
	"github.com/pollwright/surveywizard/internal/core/store"
	"github.com/pollwright/surveywizard/internal/logic"
	"github.com/pollwright/surveywizard/internal/types"
)

// Handler serves the question wizard endpoints backed by the survey store.
type Handler struct {
	store *store.Store
	cfg   *config.AdminAPIConfig
}

// NewHandler creates a handler with the given store and config.
func NewHandler(st *store.Store, cfg *config.AdminAPIConfig) *Handler {
	return &Handler{store: st, cfg: cfg}
}

func surveyID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("surveyId"), 10, 64)
}

func questionID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("questionId"), 10, 64)
}

// GetSurvey returns the survey header shown above the wizard's question
// list: title, description, active flag and reward.
func (h *Handler) GetSurvey(c *fiber.Ctx) error {
	sid, err := surveyID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid surveyId"})
	}

	survey, err := h.store.GetSurvey(sid)
	if err == sql.ErrNoRows {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "survey not found"})
	}
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load survey"})
	}

	return c.JSON(survey)
}

// LogicQuestions returns the condition builder's question catalog for a
// survey. With ?current=<code> only questions ordered before the current one
// are returned, matching builder eligibility.
func (h *Handler) LogicQuestions(c *fiber.Ctx) error {
	sid, err := surveyID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid surveyId"})
	}

	cat, err := h.store.LoadCatalog(sid)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load questions"})
	}

	var current *types.Question
	if code := c.Query("current"); code != "" {
		// Unknown codes leave current nil: a question still being created
		// may reference the whole catalog.
		current, _ = cat.ByCode(code)
	}

	eligible := cat.Eligible(current)
	payload := make([]*types.Question, 0, len(eligible))
	for _, q := range eligible {
		// Rule text stays server-side; the builder payload carries structure only.
		copied := *q
		copied.VisibilityRules = ""
		payload = append(payload, &copied)
	}

	return c.JSON(fiber.Map{"questions": payload})
}

// QuestionData returns one question's full descriptor: text, type, helper
// text, choices and matrix structure. The wizard edit form loads it when a
// question is opened.
func (h *Handler) QuestionData(c *fiber.Ctx) error {
	sid, err := surveyID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid surveyId"})
	}
	qid, err := questionID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid questionId"})
	}

	cat, err := h.store.LoadCatalog(sid)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load questions"})
	}
	for _, q := range cat.Questions() {
		if q.ID == qid {
			return c.JSON(q)
		}
	}
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "question not found"})
}

// GetVisibility returns a question's stored rule document text.
func (h *Handler) GetVisibility(c *fiber.Ctx) error {
	qid, err := questionID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid questionId"})
	}

	field := h.store.Field(qid)
	text, ok := field.FieldText(builder.DefaultFieldName)
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "question not found"})
	}

	return c.JSON(fiber.Map{"rules": text})
}

// PutVisibility replaces a question's rule document. The text is decoded and
// re-encoded so only canonical documents reach storage; malformed input is
// rejected rather than silently reset.
func (h *Handler) PutVisibility(c *fiber.Ctx) error {
	qid, err := questionID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid questionId"})
	}

	var body struct {
		Rules string `json:"rules"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	doc, err := logic.Decode(body.Rules)
	if err != nil {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": "malformed rule document"})
	}
	canonical, err := logic.Encode(doc)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode rules"})
	}

	if err := h.store.Field(qid).SetFieldText(builder.DefaultFieldName, canonical); err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "question not found"})
	}

	return c.JSON(fiber.Map{"rules": canonical})
}

// PreviewVisibility evaluates a rule document against a supplied answer map
// without persisting anything. Used by the wizard's live preview.
func (h *Handler) PreviewVisibility(c *fiber.Ctx) error {
	var body struct {
		Rules   string         `json:"rules"`
		Answers map[string]any `json:"answers"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	visible, err := logic.EvalDocument(body.Rules, logic.Answers(body.Answers))
	if err != nil {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": "malformed rule document"})
	}

	return c.JSON(fiber.Map{"visible": visible})
}

// SetRouting updates a question's explicit next-question target.
func (h *Handler) SetRouting(c *fiber.Ctx) error {
	qid, err := questionID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid questionId"})
	}

	var body struct {
		NextQuestionID int64 `json:"next_question_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.store.SetNextQuestion(qid, body.NextQuestionID); err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "question not found"})
	}

	return c.JSON(fiber.Map{"message": "routing updated"})
}

// Reorder rewrites the survey's question order from an ID list.
func (h *Handler) Reorder(c *fiber.Ctx) error {
	if _, err := surveyID(c); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid surveyId"})
	}

	var body struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.IDs) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "ids is required"})
	}
	if len(body.IDs) > h.cfg.MaxReorderSize {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "too many questions in reorder request"})
	}

	if err := h.store.Reorder(body.IDs); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to reorder questions"})
	}

	return c.JSON(fiber.Map{"message": "order updated"})
}

// BulkAddChoices parses a pasted choice list and appends the entries to a
// question. Comma-separated input splits on commas, otherwise per line;
// "Label|123" assigns an explicit numeric value.
func (h *Handler) BulkAddChoices(c *fiber.Ctx) error {
	qid, err := questionID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid questionId"})
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	entries := builder.ParseBulkEntries(body.Text)
	if len(entries) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "no choices found in text"})
	}

	if err := h.store.AddChoices(qid, entries); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to add choices"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"added": len(entries)})
}

// StartSubmission mints a server-side submission identifier. Answers
// recorded under it accumulate in the response log; the ID embeds its start
// time, which is echoed back.
func (h *Handler) StartSubmission(c *fiber.Ctx) error {
	if _, err := surveyID(c); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid surveyId"})
	}

	id := types.NewSubmissionID()
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"submission_id": id,
		"started_at":    types.SubmissionIDTime(id).UTC().Format(time.RFC3339),
	})
}

// NextQuestion resolves the next visible question for a submission, walking
// explicit routing targets with visibility evaluation and falling back to
// linear order.
func (h *Handler) NextQuestion(c *fiber.Ctx) error {
	sid, err := surveyID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid surveyId"})
	}
	submissionID, err := types.ParseSubmissionID(c.Params("submissionId"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid submissionId"})
	}

	cat, err := h.store.LoadCatalog(sid)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load questions"})
	}
	answers, err := h.store.LoadAnswers(submissionID)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load answers"})
	}

	current := currentQuestion(c.Query("current"), cat)
	if current == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "unknown current question"})
	}

	ordered := cat.Questions()
	var preferred *types.Question
	if current.NextQuestionID != 0 {
		for _, q := range ordered {
			if q.ID == current.NextQuestionID {
				preferred = q
				break
			}
		}
	}

	next := logic.SafeNextQuestion(preferred, current, ordered, answers)
	if next == nil {
		return c.JSON(fiber.Map{"done": true})
	}

	return c.JSON(fiber.Map{"done": false, "question": next})
}

// RecordAnswer stores one answer value under a submission.
func (h *Handler) RecordAnswer(c *fiber.Ctx) error {
	submissionID, err := types.ParseSubmissionID(c.Params("submissionId"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid submissionId"})
	}
	qid, err := questionID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid questionId"})
	}

	var body struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := c.BodyParser(&body); err != nil || body.Key == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
	}

	if err := h.store.RecordAnswer(submissionID, qid, body.Key, body.Value); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record answer"})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "answer recorded"})
}

// currentQuestion resolves the ?current= query value as a code first, then a
// decimal question ID.
func currentQuestion(key string, cat *catalog.Catalog) *types.Question {
	if key == "" {
		return nil
	}
	if q, ok := cat.ByCode(key); ok {
		return q
	}
	if q, ok := cat.ByRef(key); ok {
		return q
	}
	return nil
}
