package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pollwright/surveywizard/internal/types"
)

/*
 * Inbound catalog payload.
 *
 * The admin page embeds the catalog as a JSON array of question descriptors
 * at page load. The payload is hand-assembled server-side and a little
 * loose with types: choice/row/column values may be numbers, choices may
 * carry "label" instead of "text". Decoding normalizes everything into the
 * strict shapes in internal/types.
 */

// flexString accepts a JSON string, number, bool, or null and stores its
// string form. "value" fields arrive as numbers from older payloads.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*f = ""
	case string:
		*f = flexString(v)
	case json.Number:
		*f = flexString(v.String())
	case bool:
		*f = flexString(fmt.Sprintf("%v", v))
	default:
		return fmt.Errorf("unsupported value type %T", raw)
	}
	return nil
}

type payloadChoice struct {
	ID             int64      `json:"id"`
	Text           string     `json:"text"`
	Label          string     `json:"label"`
	Value          flexString `json:"value"`
	NextQuestionID int64      `json:"next_question_id"`
}

type payloadColumn struct {
	ID        int64      `json:"id"`
	Label     string     `json:"label"`
	Value     flexString `json:"value"`
	InputType string     `json:"input_type"`
	Group     string     `json:"group"`
	Order     int        `json:"order"`
	Required  bool       `json:"required"`
}

type payloadRow struct {
	ID       int64      `json:"id"`
	Text     string     `json:"text"`
	Label    string     `json:"label"`
	Value    flexString `json:"value"`
	Required bool       `json:"required"`
}

type payloadGroup struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type payloadQuestion struct {
	ID             int64              `json:"id"`
	Code           string             `json:"code"`
	Text           string             `json:"text"`
	SortIndex      int                `json:"sort_index"`
	Type           types.QuestionType `json:"question_type"`
	MatrixMode     types.MatrixMode   `json:"matrix_mode"`
	Choices        []payloadChoice    `json:"choices"`
	MatrixRows     []payloadRow       `json:"matrix_rows"`
	MatrixColumns  []payloadColumn    `json:"matrix_columns"`
	SBSGroups      []payloadGroup     `json:"sbs_groups"`
	HelperText     string             `json:"helper_text"`
	Required       bool               `json:"required"`
	NextQuestionID int64              `json:"next_question_id"`
}

// DecodeCatalogPayload parses the embedded catalog JSON and returns a ready
// catalog.
func DecodeCatalogPayload(data []byte) (*Catalog, error) {
	var raw []payloadQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog payload: %w", err)
	}

	questions := make([]types.Question, 0, len(raw))
	for _, pq := range raw {
		q := types.Question{
			ID:             pq.ID,
			Code:           pq.Code,
			Text:           pq.Text,
			SortIndex:      pq.SortIndex,
			Type:           pq.Type,
			MatrixMode:     pq.MatrixMode,
			HelperText:     pq.HelperText,
			Required:       pq.Required,
			NextQuestionID: pq.NextQuestionID,
		}
		for _, pc := range pq.Choices {
			text := pc.Text
			if text == "" {
				text = pc.Label
			}
			q.Choices = append(q.Choices, types.Choice{
				ID:             pc.ID,
				Text:           text,
				Value:          string(pc.Value),
				NextQuestionID: pc.NextQuestionID,
			})
		}
		for _, pr := range pq.MatrixRows {
			text := pr.Text
			if text == "" {
				text = pr.Label
			}
			q.MatrixRows = append(q.MatrixRows, types.MatrixRow{
				ID:       pr.ID,
				Text:     text,
				Value:    string(pr.Value),
				Required: pr.Required,
			})
		}
		for _, pc := range pq.MatrixColumns {
			q.MatrixColumns = append(q.MatrixColumns, types.MatrixColumn{
				ID:        pc.ID,
				Label:     pc.Label,
				Value:     string(pc.Value),
				InputType: pc.InputType,
				Group:     pc.Group,
				Order:     pc.Order,
				Required:  pc.Required,
			})
		}
		for _, pg := range pq.SBSGroups {
			q.SBSGroups = append(q.SBSGroups, types.SBSGroup{
				Name: pg.Name,
				Slug: pg.Slug,
			})
		}
		questions = append(questions, q)
	}

	return New(questions), nil
}
