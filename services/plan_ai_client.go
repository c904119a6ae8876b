package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// PlanAIClient calls an external model-backed goal generator. Any
// failure here is recoverable: the caller falls back to the rule
// engine, so plan generation itself never depends on this service
// being reachable.
type PlanAIClient struct {
	client   *http.Client
	endpoint string
	token    string
}

func NewPlanAIClient() *PlanAIClient {
	return &PlanAIClient{
		client:   &http.Client{Timeout: 15 * time.Second},
		endpoint: os.Getenv("PLAN_AI_URL"),
		token:    os.Getenv("PLAN_AI_TOKEN"),
	}
}

type planAIRequest struct {
	Age           int     `json:"age"`
	WeightKg      float64 `json:"weight_kg"`
	HeightCm      float64 `json:"height_cm"`
	Sex           string  `json:"sex,omitempty"`
	Mode          string  `json:"mode"`
	Experience    string  `json:"experience"`
	ActivityLevel string  `json:"activity_level"`
}

func (c *PlanAIClient) GenerateTargets(bio Biometrics, mode, experience, activity string) (PlanTargets, error) {
	if c.endpoint == "" {
		return PlanTargets{}, fmt.Errorf("PLAN_AI_URL not set")
	}
	if bio.Age <= 0 || bio.WeightKg <= 0 || bio.HeightCm <= 0 {
		return PlanTargets{}, &InvalidBiometricsError{Field: "age/weight/height"}
	}

	payload, err := json.Marshal(planAIRequest{
		Age:           bio.Age,
		WeightKg:      bio.WeightKg,
		HeightCm:      bio.HeightCm,
		Sex:           bio.Sex,
		Mode:          mode,
		Experience:    experience,
		ActivityLevel: activity,
	})
	if err != nil {
		return PlanTargets{}, err
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return PlanTargets{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return PlanTargets{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return PlanTargets{}, fmt.Errorf("plan generator returned status %d", resp.StatusCode)
	}

	var targets PlanTargets
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		return PlanTargets{}, err
	}
	if targets.CalorieTarget <= 0 || targets.ProteinG <= 0 {
		return PlanTargets{}, fmt.Errorf("plan generator returned implausible targets")
	}
	return targets, nil
}
