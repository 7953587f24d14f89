package rest

import (
	"time"

	"github.com/pribylovaa/forum-gateway/internal/models"
)

// DTO бэкенда (camelCase, времена в RFC 3339).

type packageDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Category  string    `json:"category"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

type topicDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	PackageID   string `json:"packageId"`
	EssayPrompt string `json:"essayPrompt"`
	ExamID      string `json:"examId"`
	Stats       struct {
		TotalLikes    int `json:"totalLikes"`
		TotalComments int `json:"totalComments"`
	} `json:"stats"`
	CreatedAt time.Time `json:"createdAt"`
}

type authorDTO struct {
	Name     string `json:"name"`
	IsAISeed bool   `json:"isAISeed"`
}

type commentDTO struct {
	ID            string       `json:"id"`
	TopicID       string       `json:"topicId"`
	ParentComment *string      `json:"parentComment"`
	Author        authorDTO    `json:"author"`
	Content       string       `json:"content"`
	CreatedAt     time.Time    `json:"createdAt"`
	Likes         []string     `json:"likes"`
	Replies       []commentDTO `json:"replies"`
}

func (d packageDTO) toModel() models.Package {
	return models.Package{
		ID:        d.ID,
		Title:     d.Title,
		Excerpt:   d.Excerpt,
		Category:  d.Category,
		Source:    d.Source,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (d topicDTO) toModel() models.Topic {
	return models.Topic{
		ID:          d.ID,
		Title:       d.Title,
		PackageID:   d.PackageID,
		EssayPrompt: d.EssayPrompt,
		ExamID:      d.ExamID,
		Stats: models.TopicStats{
			TotalLikes:    d.Stats.TotalLikes,
			TotalComments: d.Stats.TotalComments,
		},
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// toModel конвертирует комментарий вместе с ответами; пустой topicId наследуется от вызова.
func (d commentDTO) toModel(topicID string) models.Comment {
	if d.TopicID != "" {
		topicID = d.TopicID
	}

	var parent string
	if d.ParentComment != nil {
		parent = *d.ParentComment
	}

	return models.Comment{
		ID:       d.ID,
		TopicID:  topicID,
		ParentID: parent,
		Author: models.Author{
			Name:     d.Author.Name,
			IsAISeed: d.Author.IsAISeed,
		},
		Content:   d.Content,
		CreatedAt: d.CreatedAt.UTC(),
		Likes:     d.Likes,
		Replies:   commentsToModel(d.Replies, topicID),
	}
}

func commentsToModel(dtos []commentDTO, topicID string) []models.Comment {
	if len(dtos) == 0 {
		return nil
	}

	out := make([]models.Comment, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toModel(topicID))
	}

	return out
}
