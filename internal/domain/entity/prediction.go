package entity

import "unicode/utf8"

// LabelScore is one class score as emitted by a classifier
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ScoreDistribution maps each class label to its confidence
type ScoreDistribution map[string]float64

// Prediction is the classification outcome for a single input text
type Prediction struct {
	Text       string
	TextLength int
	Label      string
	Confidence float64
	Scores     ScoreDistribution
	Err        error
}

// NewPrediction builds a prediction from the raw scores of one text.
//
// A label repeated in scores keeps its last value. The top label is chosen by walking
// labels in the order they first appear and keeping the first maximum, so ties resolve
// to the label the classifier emitted first.
func NewPrediction(text string, scores []LabelScore) *Prediction {
	dist := make(ScoreDistribution, len(scores))
	order := make([]string, 0, len(scores))
	for _, s := range scores {
		if _, seen := dist[s.Label]; !seen {
			order = append(order, s.Label)
		}
		dist[s.Label] = s.Score
	}

	p := &Prediction{
		Text:       text,
		TextLength: utf8.RuneCountInString(text),
		Scores:     dist,
	}
	for i, label := range order {
		if i == 0 || dist[label] > p.Confidence {
			p.Label = label
			p.Confidence = dist[label]
		}
	}
	return p
}

// NewFailedPrediction records a text the classifier could not score
func NewFailedPrediction(text string, err error) *Prediction {
	return &Prediction{
		Text:       text,
		TextLength: utf8.RuneCountInString(text),
		Scores:     ScoreDistribution{},
		Err:        err,
	}
}

// Failed reports whether classification of this text failed
func (p *Prediction) Failed() bool {
	return p.Err != nil
}
