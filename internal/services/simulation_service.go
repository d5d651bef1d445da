package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/decoynet/decoynet/internal/classifier"
	"github.com/decoynet/decoynet/internal/feed"
	"github.com/decoynet/decoynet/internal/logger"
	"github.com/decoynet/decoynet/internal/metrics"
	"github.com/decoynet/decoynet/internal/models"
)

// Scenario is one scripted attack drill.
type Scenario struct {
	Name       string
	Kind       classifier.Kind
	Attacks    int
	AttackType string
}

// Scenarios is the fixed drill table. An unknown scenario name falls back to
// the first entry; callers that want strict lookup should check
// FindScenario first.
var Scenarios = []Scenario{
	{Name: "Brute Force Attack", Kind: classifier.KindLogin, Attacks: 10, AttackType: "Credential Stuffing"},
	{Name: "SQL Injection Chain", Kind: classifier.KindDB, Attacks: 5, AttackType: "SQL Injection"},
	{Name: "Privilege Escalation", Kind: classifier.KindAPI, Attacks: 7, AttackType: "Unauthorized Access"},
	{Name: "Data Exfiltration", Kind: classifier.KindAPI, Attacks: 8, AttackType: "Data Theft Attempt"},
}

// FindScenario returns the named scenario, or false when it is unknown.
func FindScenario(name string) (Scenario, bool) {
	for _, s := range Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// SimulationService drives scripted attack/defense runs through the same
// classify/record pipeline real interactions use. Each run owns its own
// simulation record and log buffer; concurrent runs share nothing but the
// database.
type SimulationService struct {
	DB       *gorm.DB
	Hub      *feed.Hub
	Recorder *RecorderService

	// StepDelay paces the synthetic attacks. Zero disables pacing (tests).
	StepDelay time.Duration
}

func NewSimulationService(db *gorm.DB, hub *feed.Hub, recorder *RecorderService, stepDelay time.Duration) *SimulationService {
	return &SimulationService{DB: db, Hub: hub, Recorder: recorder, StepDelay: stepDelay}
}

// Start runs the named scenario to its terminal state and returns the final
// record. Unknown names fall back to the first scenario. Individual attack
// failures are written to the run log and swallowed; the run always
// completes.
func (s *SimulationService) Start(scenarioName string) (*models.Simulation, error) {
	scenario, ok := FindScenario(scenarioName)
	if !ok {
		scenario = Scenarios[0]
		logger.WithFields(map[string]interface{}{
			"requested": scenarioName,
			"fallback":  scenario.Name,
		}).Warn("Unknown scenario, falling back to first defined scenario")
	}

	sim := &models.Simulation{
		Name:       scenario.Name,
		AttackType: scenario.AttackType,
		Status:     models.SimulationStatusRunning,
		Logs:       models.StringList{},
	}
	if err := s.DB.Create(sim).Error; err != nil {
		return nil, fmt.Errorf("insert simulation: %w", err)
	}

	metrics.IncSimulation()
	s.Hub.Publish(feed.KindSimulation, feed.Event{Action: "created", Record: snapshotSimulation(sim)})

	start := time.Now()
	s.appendLog(sim,
		fmt.Sprintf("[INFO] Starting %s simulation", scenario.Name),
		fmt.Sprintf("[SIM] Red team AI spawned - Target: /honeypot/%s", scenario.Kind),
		"[SIM] Blue team defender active",
	)

	for i := 0; i < scenario.Attacks; i++ {
		if s.StepDelay > 0 {
			time.Sleep(s.StepDelay)
		}

		s.appendLog(sim, fmt.Sprintf("[ATTACK] Attempt %d/%d - %s", i+1, scenario.Attacks, scenario.AttackType))

		if _, err := s.Recorder.Record(syntheticAttack(scenario, i)); err != nil {
			s.appendLog(sim, fmt.Sprintf("[ERROR] Attack attempt %d failed: %v", i+1, err))
			continue
		}

		s.appendLog(sim, "[DEFENSE] Attack pattern detected and logged")
	}

	duration := int(time.Since(start).Seconds())
	s.appendLog(sim,
		"[BLOCKED] All attacks neutralized by AI defender",
		fmt.Sprintf("[SUCCESS] Simulation completed in %ds", duration),
	)

	sim.Status = models.SimulationStatusCompleted
	sim.Result = "Defender Win"
	sim.Blocked = true
	sim.Duration = duration
	if err := s.DB.Save(sim).Error; err != nil {
		return nil, fmt.Errorf("finalize simulation: %w", err)
	}

	s.Hub.Publish(feed.KindSimulation, feed.Event{Action: "updated", Record: snapshotSimulation(sim)})
	return sim, nil
}

// snapshotSimulation copies the record for publishing. The run keeps mutating
// sim after the event goes out, so subscribers must never see the live
// pointer or share its Logs backing array.
func snapshotSimulation(sim *models.Simulation) *models.Simulation {
	clone := *sim
	clone.Logs = append(models.StringList(nil), sim.Logs...)
	return &clone
}

// appendLog appends lines to the run log, persists, and publishes the
// update. Log persistence is best effort during the run; the in-memory log
// stays authoritative until the terminal save.
func (s *SimulationService) appendLog(sim *models.Simulation, lines ...string) {
	sim.Logs = append(sim.Logs, lines...)

	if err := s.DB.Model(sim).Update("logs", sim.Logs).Error; err != nil {
		logger.WithFields(map[string]interface{}{"simulation_id": sim.ID}).
			WithError(err).Error("Failed to persist simulation log")
	}

	s.Hub.Publish(feed.KindSimulation, feed.Event{Action: "updated", Record: snapshotSimulation(sim)})
}

// syntheticAttack builds the i-th attack payload for the scenario's target
// endpoint kind.
func syntheticAttack(scenario Scenario, i int) classifier.Input {
	in := classifier.Input{
		IPAddress: "10.0.0.99",
		Kind:      scenario.Kind,
		Method:    "POST",
		Headers:   map[string]interface{}{"user-agent": "decoynet-simulator"},
	}

	switch scenario.Kind {
	case classifier.KindLogin:
		in.Path = "/honeypot/login"
		in.Body = map[string]interface{}{
			"username": fmt.Sprintf("admin%d", i),
			"password": fmt.Sprintf("password%d", i),
		}
	case classifier.KindDB:
		in.Path = "/honeypot/db"
		in.Body = map[string]interface{}{
			"query": fmt.Sprintf("SELECT * FROM users WHERE id=%d", i),
		}
	default:
		in.Path = fmt.Sprintf("/honeypot/api/data/%d", i)
		in.Body = map[string]interface{}{
			"endpoint": fmt.Sprintf("/api/data/%d", i),
		}
	}

	return in
}

// List returns simulations newest first.
func (s *SimulationService) List(limit int) ([]models.Simulation, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var sims []models.Simulation
	result := s.DB.Order("created_at desc").Limit(limit).Find(&sims)
	return sims, result.Error
}

// Get returns one simulation by id.
func (s *SimulationService) Get(id string) (*models.Simulation, error) {
	var sim models.Simulation
	if err := s.DB.First(&sim, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sim, nil
}
