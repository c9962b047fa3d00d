package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	s, err := NewServer(Options{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s.Handler()
}

// do sends body as JSON (when non-nil) and decodes the response into out
// (when non-nil).
func do(t *testing.T, h http.Handler, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %s: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) errorBody {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != code {
		t.Fatalf("error code = %q, want %q", body.Error.Code, code)
	}
	return body
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	var body struct {
		Status    string         `json:"status"`
		Scenarios int            `json:"scenarios"`
		Sessions  map[string]int `json:"sessions"`
	}
	expectStatus(t, do(t, h, http.MethodGet, "/health", nil, &body), http.StatusOK)
	if body.Status != "ok" || body.Scenarios != 1 || len(body.Sessions) != 6 {
		t.Fatalf("unexpected health: %+v", body)
	}
}

var startupCategories = map[string]string{
	"ec2-web":       "Compute",
	"s3-backups":    "Storage",
	"rds-reporting": "Database",
	"ebs-orphans":   "Storage",
	"eip-idle":      "Networking",
	"nat-gw":        "Networking",
}

var startupOptimizations = map[string]string{
	"ec2-web":       "rightsizing",
	"s3-backups":    "lifecycle policy",
	"rds-reporting": "downsize database",
	"ebs-orphans":   "delete idle resource",
	"eip-idle":      "delete idle resource",
	"nat-gw":        "no action",
}

func TestBillEndpoints(t *testing.T) {
	h := newTestServer(t)

	var bill struct {
		Items []struct {
			Cost float64 `json:"cost"`
		} `json:"items"`
	}
	rec := do(t, h, http.MethodGet, "/api/v1/bill?id=aws-startup-001", nil, &bill)
	expectStatus(t, rec, http.StatusOK)
	if len(bill.Items) == 0 || bill.Items[0].Cost <= 0 {
		t.Fatalf("costs should be JSON numbers: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "category_answer") || strings.Contains(rec.Body.String(), "optimization_answer") {
		t.Fatalf("bill leaks answers: %s", rec.Body.String())
	}
	expectError(t, do(t, h, http.MethodGet, "/api/v1/bill?id=nope", nil, nil), http.StatusNotFound, "NOT_FOUND")

	var tip struct {
		Tip string `json:"tip"`
	}
	expectStatus(t, do(t, h, http.MethodGet, "/api/v1/tip", nil, &tip), http.StatusOK)
	if tip.Tip == "" {
		t.Fatal("empty tip")
	}

	expectError(t, do(t, h, http.MethodPost, "/api/v1/validate-categories",
		map[string]any{"categories": map[string]string{}}, nil), http.StatusBadRequest, "INVALID_REQUEST")

	partial := map[string]any{
		"bill_id":    "aws-startup-001",
		"categories": map[string]string{"ec2-web": "Compute", "s3-backups": "Database"},
	}
	var graded struct {
		Results map[string]struct {
			IsCorrect bool `json:"is_correct"`
		} `json:"results"`
		AllCorrect bool `json:"all_correct"`
	}
	expectStatus(t, do(t, h, http.MethodPost, "/api/v1/validate-categories", partial, &graded), http.StatusOK)
	if graded.AllCorrect || !graded.Results["ec2-web"].IsCorrect || graded.Results["s3-backups"].IsCorrect {
		t.Fatalf("unexpected grading: %+v", graded)
	}

	var summary struct {
		Savings float64 `json:"savings"`
	}
	rec = do(t, h, http.MethodPost, "/api/v1/validate-optimizations",
		map[string]any{"bill_id": "aws-startup-001", "optimizations": startupOptimizations}, &summary)
	expectStatus(t, rec, http.StatusOK)
	if summary.Savings <= 0 {
		t.Fatalf("expected savings, got %s", rec.Body.String())
	}
}

type billGameBody struct {
	Session struct {
		ID           string          `json:"id"`
		BillID       string          `json:"bill_id"`
		Phase        string          `json:"phase"`
		Attempts     int             `json:"attempts"`
		Categories   json.RawMessage `json:"categories"`
		Optimization json.RawMessage `json:"optimization"`
	} `json:"session"`
	Bill struct {
		ID string `json:"bill_id"`
	} `json:"bill"`
}

func TestBillGameFlow(t *testing.T) {
	h := newTestServer(t)

	var game billGameBody
	expectStatus(t, do(t, h, http.MethodPost, "/api/v1/bill-games", map[string]string{"bill_id": "aws-startup-001"}, &game), http.StatusCreated)
	if game.Session.Phase != "categorize" || game.Bill.ID != "aws-startup-001" {
		t.Fatalf("unexpected game: %+v", game)
	}
	base := "/api/v1/bill-games/" + game.Session.ID

	// Incomplete submissions leave the session untouched.
	rec := do(t, h, http.MethodPost, base+"/categories", map[string]any{"categories": map[string]string{"ec2-web": "Compute"}}, nil)
	body := expectError(t, rec, http.StatusUnprocessableEntity, "INCOMPLETE_SUBMISSION")
	if !strings.Contains(body.Error.Details["missing"], "nat-gw") {
		t.Fatalf("missing items not reported: %+v", body.Error.Details)
	}
	expectError(t, do(t, h, http.MethodPost, base+"/optimizations",
		map[string]any{"optimizations": startupOptimizations}, nil), http.StatusConflict, "INVALID_STATE")

	wrong := map[string]string{}
	for k, v := range startupCategories {
		wrong[k] = v
	}
	wrong["nat-gw"] = "Compute"
	expectStatus(t, do(t, h, http.MethodPost, base+"/categories", map[string]any{"categories": wrong}, &game), http.StatusOK)
	if game.Session.Phase != "categorize" || game.Session.Attempts != 1 {
		t.Fatalf("wrong answer should stay in categorize: %+v", game.Session)
	}

	expectStatus(t, do(t, h, http.MethodPost, base+"/categories", map[string]any{"categories": startupCategories}, &game), http.StatusOK)
	if game.Session.Phase != "optimize" || game.Session.Attempts != 2 {
		t.Fatalf("expected optimize phase: %+v", game.Session)
	}

	expectError(t, do(t, h, http.MethodPost, base+"/optimizations",
		map[string]any{"bill_id": "aws-analytics-002", "optimizations": startupOptimizations}, nil), http.StatusBadRequest, "INVALID_REQUEST")

	expectStatus(t, do(t, h, http.MethodPost, base+"/optimizations",
		map[string]any{"optimizations": startupOptimizations}, &game), http.StatusOK)
	if game.Session.Phase != "results" || len(game.Session.Optimization) == 0 {
		t.Fatalf("expected results: %+v", game.Session)
	}

	game = billGameBody{}
	expectStatus(t, do(t, h, http.MethodPost, base+"/reset", nil, &game), http.StatusOK)
	if game.Session.Phase != "categorize" || game.Session.Attempts != 0 ||
		len(game.Session.Categories) != 0 || len(game.Session.Optimization) != 0 {
		t.Fatalf("reset did not clear the game: %+v", game.Session)
	}
	if game.Session.BillID != game.Bill.ID {
		t.Fatalf("session bill %q, served bill %q", game.Session.BillID, game.Bill.ID)
	}

	expectError(t, do(t, h, http.MethodGet, "/api/v1/bill-games/missing", nil, nil), http.StatusNotFound, "NOT_FOUND")
}

func TestBillGameResetDrawsNewBill(t *testing.T) {
	h := newTestServer(t)

	var game billGameBody
	expectStatus(t, do(t, h, http.MethodPost, "/api/v1/bill-games", nil, &game), http.StatusCreated)
	base := "/api/v1/bill-games/" + game.Session.ID

	seen := map[string]bool{game.Bill.ID: true}
	for i := 0; i < 40; i++ {
		game = billGameBody{}
		expectStatus(t, do(t, h, http.MethodPost, base+"/reset", nil, &game), http.StatusOK)
		if game.Session.Phase != "categorize" || game.Session.BillID != game.Bill.ID {
			t.Fatalf("reset %d: %+v", i, game)
		}
		seen[game.Bill.ID] = true
	}
	if len(seen) < 2 {
		t.Fatalf("resets never changed the bill: %v", seen)
	}

	game = billGameBody{}
	expectStatus(t, do(t, h, http.MethodPost, base+"/reset", map[string]string{"bill_id": "aws-analytics-002"}, &game), http.StatusOK)
	if game.Session.BillID != "aws-analytics-002" || game.Bill.ID != "aws-analytics-002" {
		t.Fatalf("pinned reset landed on %q", game.Session.BillID)
	}
	expectError(t, do(t, h, http.MethodPost, base+"/reset", map[string]string{"bill_id": "nope"}, nil), http.StatusNotFound, "NOT_FOUND")
}

type scenarioBody struct {
	Session struct {
		ID     string   `json:"id"`
		Stage  string   `json:"stage"`
		Score  int      `json:"score"`
		Badges []string `json:"badges"`
	} `json:"session"`
	Stage *struct {
		ID          string   `json:"id"`
		Description string   `json:"description"`
		Choices     []string `json:"choices"`
	} `json:"stage"`
	Label string `json:"label"`
}

type choiceBody struct {
	Feedback string   `json:"feedback"`
	NewStage string   `json:"new_stage"`
	Score    int      `json:"score"`
	Badges   []string `json:"badges"`
	Finished bool     `json:"finished"`
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestScenarioFlow(t *testing.T) {
	h := newTestServer(t)

	var list []struct {
		ID     string `json:"id"`
		Stages int    `json:"stages"`
	}
	expectStatus(t, do(t, h, http.MethodGet, "/api/v1/scenarios", nil, &list), http.StatusOK)
	if len(list) != 1 || list[0].ID != "kubecost-detective" || list[0].Stages != 5 {
		t.Fatalf("unexpected scenarios: %+v", list)
	}
	expectError(t, do(t, h, http.MethodPost, "/api/v1/scenarios/nope/sessions", nil, nil), http.StatusNotFound, "NOT_FOUND")

	var sess scenarioBody
	expectStatus(t, do(t, h, http.MethodPost, "/api/v1/scenarios/kubecost-detective/sessions",
		map[string]int64{"seed": 42}, &sess), http.StatusCreated)
	if sess.Session.Stage != "intro" || sess.Stage != nil {
		t.Fatalf("new session should sit at intro: %+v", sess)
	}
	base := "/api/v1/scenario-sessions/" + sess.Session.ID

	expectError(t, do(t, h, http.MethodPost, base+"/choice",
		map[string]any{"stage_id": "stage1", "choice_index": 0}, nil), http.StatusConflict, "INVALID_STATE")

	expectStatus(t, do(t, h, http.MethodPost, base+"/start", nil, &sess), http.StatusOK)
	if sess.Stage == nil || sess.Stage.ID != "stage1" || sess.Label != "Stage 1 of 5" {
		t.Fatalf("unexpected first stage: %+v", sess)
	}
	if strings.Contains(sess.Stage.Description, "${") || !strings.Contains(sess.Stage.Description, "$") {
		t.Fatalf("description not rendered: %q", sess.Stage.Description)
	}

	expectError(t, do(t, h, http.MethodPost, base+"/choice", map[string]any{"stage_id": "stage1"}, nil),
		http.StatusBadRequest, "INVALID_REQUEST")
	expectError(t, do(t, h, http.MethodPost, base+"/choice",
		map[string]any{"stage_id": "stage1", "choice_index": 9}, nil), http.StatusBadRequest, "INVALID_REQUEST")

	var choice choiceBody
	expectStatus(t, do(t, h, http.MethodPost, base+"/choice",
		map[string]any{"stage_id": "stage1", "choice_index": 0}, &choice), http.StatusOK)
	if choice.Score != 100 || choice.NewStage != "stage2" || !contains(choice.Badges, "Investigator") {
		t.Fatalf("unexpected choice outcome: %+v", choice)
	}

	// A replayed submission for a stage already answered is refused.
	body := expectError(t, do(t, h, http.MethodPost, base+"/choice",
		map[string]any{"stage_id": "stage1", "choice_index": 0}, nil), http.StatusConflict, "INVALID_STATE")
	if body.Error.Details["current"] != "stage2" {
		t.Fatalf("current stage not reported: %+v", body.Error.Details)
	}
	expectError(t, do(t, h, http.MethodGet, base+"/results", nil, nil), http.StatusConflict, "INVALID_STATE")

	for _, stage := range []string{"stage2", "stage3", "stage4", "stage5"} {
		expectStatus(t, do(t, h, http.MethodPost, base+"/choice",
			map[string]any{"stage_id": stage, "choice_index": 0}, &choice), http.StatusOK)
	}
	if !choice.Finished || choice.NewStage != "end" || choice.Score != 500 {
		t.Fatalf("expected finished session: %+v", choice)
	}

	var res struct {
		Score      int      `json:"score"`
		Success    bool     `json:"success"`
		SavingsPct float64  `json:"savings_pct"`
		Badges     []string `json:"badges"`
	}
	expectStatus(t, do(t, h, http.MethodGet, base+"/results", nil, &res), http.StatusOK)
	if !res.Success || res.SavingsPct != 45 {
		t.Fatalf("unexpected results: %+v", res)
	}
	for _, b := range []string{"Master Detective", "Senior Detective", "Junior Detective", "FinOps Expert", "Organizer", "Cost Optimizer"} {
		if !contains(res.Badges, b) {
			t.Fatalf("badge %q missing from %v", b, res.Badges)
		}
	}

	expectStatus(t, do(t, h, http.MethodPost, base+"/reset", nil, &sess), http.StatusOK)
	if sess.Session.Stage != "intro" || sess.Session.Score != 0 || len(sess.Session.Badges) != 0 {
		t.Fatalf("reset did not clear the session: %+v", sess.Session)
	}
}

type savingsBody struct {
	Session struct {
		ID         string    `json:"id"`
		Usage      []float64 `json:"usage"`
		Commitment float64   `json:"commitment"`
		Locked     bool      `json:"locked"`
	} `json:"session"`
}

func TestSavingsFlow(t *testing.T) {
	h := newTestServer(t)

	var sess savingsBody
	expectStatus(t, do(t, h, http.MethodPost, "/api/v1/savings", map[string]int64{"seed": 7}, &sess), http.StatusCreated)
	if sess.Session.Commitment != 1 || len(sess.Session.Usage) != 0 {
		t.Fatalf("unexpected new session: %+v", sess.Session)
	}
	base := "/api/v1/savings/" + sess.Session.ID

	expectError(t, do(t, h, http.MethodPost, base+"/lock", nil, nil), http.StatusConflict, "INVALID_STATE")
	expectError(t, do(t, h, http.MethodGet, base+"/results", nil, nil), http.StatusConflict, "INVALID_STATE")

	for i := 0; i < 5; i++ {
		var tick struct {
			Tick struct {
				Hour  int     `json:"hour"`
				Usage float64 `json:"usage"`
			} `json:"tick"`
		}
		expectStatus(t, do(t, h, http.MethodPost, base+"/tick", nil, &tick), http.StatusOK)
		if tick.Tick.Hour != i || tick.Tick.Usage <= 0 {
			t.Fatalf("tick %d: %+v", i, tick.Tick)
		}
	}

	expectError(t, do(t, h, http.MethodPut, base+"/commitment", map[string]float64{"commitment": 9}, nil),
		http.StatusBadRequest, "INVALID_REQUEST")
	expectError(t, do(t, h, http.MethodPut, base+"/commitment", map[string]any{}, nil),
		http.StatusBadRequest, "INVALID_REQUEST")
	expectStatus(t, do(t, h, http.MethodPut, base+"/commitment", map[string]float64{"commitment": 2}, &sess), http.StatusOK)
	if sess.Session.Commitment < 1.999 || sess.Session.Commitment > 2.001 {
		t.Fatalf("commitment = %v", sess.Session.Commitment)
	}

	expectStatus(t, do(t, h, http.MethodPost, base+"/lock", nil, &sess), http.StatusOK)
	if !sess.Session.Locked || len(sess.Session.Usage) != 720 {
		t.Fatalf("lock should fill the horizon: locked=%v hours=%d", sess.Session.Locked, len(sess.Session.Usage))
	}
	expectError(t, do(t, h, http.MethodPost, base+"/tick", nil, nil), http.StatusConflict, "INVALID_STATE")

	var res struct {
		Verdict           string  `json:"verdict"`
		Message           string  `json:"message"`
		OptimalCommitment float64 `json:"optimal_commitment"`
	}
	expectStatus(t, do(t, h, http.MethodGet, base+"/results", nil, &res), http.StatusOK)
	if res.Message == "" {
		t.Fatalf("empty results message: %+v", res)
	}

	expectStatus(t, do(t, h, http.MethodPost, base+"/reset", nil, &sess), http.StatusOK)
	if sess.Session.Locked || len(sess.Session.Usage) != 0 {
		t.Fatalf("reset did not clear the round: %+v", sess.Session)
	}
}

var canonicalOrder = []string{
	"gather-data", "identify-drivers", "budgets-alerts", "optimize-resources",
	"reservations", "tagging-governance", "monitor-iterate",
}

func TestOrderingFlow(t *testing.T) {
	h := newTestServer(t)

	var resp struct {
		Session struct {
			ID     string `json:"id"`
			Solved bool   `json:"solved"`
		} `json:"session"`
		Cards []struct {
			ID string `json:"id"`
		} `json:"cards"`
		Correct int `json:"correct"`
	}
	expectStatus(t, do(t, h, http.MethodPost, "/api/v1/ordering", nil, &resp), http.StatusCreated)
	if len(resp.Cards) != len(canonicalOrder) {
		t.Fatalf("cards = %d", len(resp.Cards))
	}
	base := "/api/v1/ordering/" + resp.Session.ID

	expectError(t, do(t, h, http.MethodPost, base+"/submit",
		map[string]any{"order": canonicalOrder[:3]}, nil), http.StatusUnprocessableEntity, "INCOMPLETE_SUBMISSION")

	swapped := append([]string(nil), canonicalOrder...)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	expectStatus(t, do(t, h, http.MethodPost, base+"/submit", map[string]any{"order": swapped}, &resp), http.StatusOK)
	if resp.Correct != 5 || resp.Session.Solved {
		t.Fatalf("swap should leave 5 correct: %+v", resp)
	}

	expectStatus(t, do(t, h, http.MethodPost, base+"/submit", map[string]any{"order": canonicalOrder}, &resp), http.StatusOK)
	if resp.Correct != 7 || !resp.Session.Solved {
		t.Fatalf("canonical order should solve the puzzle: %+v", resp)
	}
}

func TestMatchingFlow(t *testing.T) {
	h := newTestServer(t)

	var resp struct {
		Session struct {
			ID     string `json:"id"`
			Screen string `json:"screen"`
			Score  int    `json:"score"`
		} `json:"session"`
		Problems []struct {
			ID             int    `json:"id"`
			CorrectPersona string `json:"correct_persona"`
		} `json:"problems"`
		MaxScore int `json:"max_score"`
	}
	expectStatus(t, do(t, h, http.MethodPost, "/api/v1/matching", map[string]int64{"seed": 3}, &resp), http.StatusCreated)
	if resp.Session.Screen != "start" || len(resp.Problems) != 5 || resp.MaxScore != 75 {
		t.Fatalf("unexpected matching session: %+v", resp)
	}
	for _, p := range resp.Problems {
		if p.CorrectPersona != "" {
			t.Fatal("problem leaks its answer")
		}
	}
	base := "/api/v1/matching/" + resp.Session.ID
	match := map[string]any{"problem_id": 1, "persona": "Cloud Engineer (Core)"}

	expectError(t, do(t, h, http.MethodPost, base+"/match", match, nil), http.StatusConflict, "INVALID_STATE")
	expectStatus(t, do(t, h, http.MethodPost, base+"/start", nil, &resp), http.StatusOK)

	var wrong struct {
		Result struct {
			IsCorrect     bool   `json:"is_correct"`
			CorrectAnswer string `json:"correct_answer"`
		} `json:"result"`
	}
	expectStatus(t, do(t, h, http.MethodPost, base+"/match",
		map[string]any{"problem_id": 2, "persona": "Cloud Engineer (Core)"}, &wrong), http.StatusOK)
	if wrong.Result.IsCorrect || wrong.Result.CorrectAnswer != "Finance Analyst (Allied)" {
		t.Fatalf("unexpected wrong match: %+v", wrong)
	}
	expectError(t, do(t, h, http.MethodPost, base+"/match",
		map[string]any{"problem_id": 99, "persona": "Cloud Engineer (Core)"}, nil), http.StatusNotFound, "NOT_FOUND")
	expectError(t, do(t, h, http.MethodPost, base+"/match",
		map[string]any{"problem_id": 0, "persona": "Cloud Engineer (Core)"}, nil), http.StatusNotFound, "NOT_FOUND")
	expectError(t, do(t, h, http.MethodPost, base+"/match",
		map[string]any{"persona": "Cloud Engineer (Core)"}, nil), http.StatusBadRequest, "INVALID_REQUEST")

	var matched struct {
		Session struct {
			Screen string `json:"screen"`
			Score  int    `json:"score"`
		} `json:"session"`
		Mission *struct {
			ProblemID int `json:"problem_id"`
			Options   []struct {
				ID      string `json:"id"`
				Correct *bool  `json:"correct"`
			} `json:"options"`
		} `json:"mission"`
	}
	expectStatus(t, do(t, h, http.MethodPost, base+"/match", match, &matched), http.StatusOK)
	if matched.Session.Screen != "mission" || matched.Session.Score != 10 || matched.Mission == nil || matched.Mission.ProblemID != 1 {
		t.Fatalf("correct match should open the mission: %+v", matched)
	}
	for _, o := range matched.Mission.Options {
		if o.Correct != nil {
			t.Fatal("mission option leaks its answer")
		}
	}

	expectError(t, do(t, h, http.MethodPost, base+"/mission", map[string]string{"option_id": "z"}, nil),
		http.StatusBadRequest, "INVALID_REQUEST")

	var mission struct {
		Session struct {
			Screen string `json:"screen"`
			Score  int    `json:"score"`
		} `json:"session"`
		Result struct {
			IsCorrect bool `json:"is_correct"`
		} `json:"result"`
	}
	expectStatus(t, do(t, h, http.MethodPost, base+"/mission", map[string]string{"option_id": "a"}, &mission), http.StatusOK)
	if !mission.Result.IsCorrect || mission.Session.Score != 15 || mission.Session.Screen != "game" {
		t.Fatalf("unexpected mission outcome: %+v", mission)
	}

	expectError(t, do(t, h, http.MethodGet, base+"/results", nil, nil), http.StatusConflict, "INVALID_STATE")
	expectError(t, do(t, h, http.MethodPost, base+"/mission/skip", nil, nil), http.StatusConflict, "INVALID_STATE")

	// Match the rest, skipping every mission; the last match ends the round.
	rest := map[int]string{
		2: "Finance Analyst (Allied)",
		3: "Finance Analyst (Allied)",
		4: "Product Manager (Allied)",
		5: "Executive Leader (Allied)",
	}
	for id := 2; id <= 5; id++ {
		expectStatus(t, do(t, h, http.MethodPost, base+"/match",
			map[string]any{"problem_id": id, "persona": rest[id]}, &matched), http.StatusOK)
		if id < 5 {
			expectStatus(t, do(t, h, http.MethodPost, base+"/mission/skip", nil, nil), http.StatusOK)
		}
	}
	if matched.Session.Screen != "results" {
		t.Fatalf("last match should go to results, got %s", matched.Session.Screen)
	}

	var res struct {
		Score    int    `json:"score"`
		MaxScore int    `json:"max_score"`
		Rating   string `json:"rating"`
	}
	expectStatus(t, do(t, h, http.MethodGet, base+"/results", nil, &res), http.StatusOK)
	if res.Score != 55 || res.Rating != "Good job!" {
		t.Fatalf("unexpected results: %+v", res)
	}
}

func TestMaturityFlow(t *testing.T) {
	h := newTestServer(t)

	type maturityBody struct {
		Session struct {
			ID       string `json:"id"`
			Feedback *struct {
				StageCorrect bool   `json:"stage_correct"`
				Hint         string `json:"hint"`
				Challenges   struct {
					Exact bool `json:"exact"`
				} `json:"challenges"`
			} `json:"feedback"`
		} `json:"session"`
		Scenario struct {
			Title            string   `json:"title"`
			ChallengeOptions []string `json:"challenge_options"`
		} `json:"scenario"`
		Position int `json:"position"`
		Total    int `json:"total"`
	}
	var resp maturityBody
	expectStatus(t, do(t, h, http.MethodPost, "/api/v1/maturity", nil, &resp), http.StatusCreated)
	if resp.Position != 1 || resp.Total != 3 {
		t.Fatalf("unexpected position: %d/%d", resp.Position, resp.Total)
	}
	base := "/api/v1/maturity/" + resp.Session.ID

	expectError(t, do(t, h, http.MethodPost, base+"/prev", nil, nil), http.StatusConflict, "INVALID_STATE")
	expectError(t, do(t, h, http.MethodPost, base+"/analyze", map[string]any{"challenges": []string{}}, nil),
		http.StatusUnprocessableEntity, "INCOMPLETE_SUBMISSION")

	expectStatus(t, do(t, h, http.MethodPost, base+"/analyze",
		map[string]any{"stage": "Walk", "challenges": resp.Scenario.ChallengeOptions[:1]}, &resp), http.StatusOK)
	fb := resp.Session.Feedback
	if fb == nil || fb.StageCorrect || fb.Hint == "" || fb.Challenges.Exact {
		t.Fatalf("unexpected feedback: %+v", fb)
	}

	expectStatus(t, do(t, h, http.MethodPost, base+"/analyze",
		map[string]any{"stage": "Crawl", "challenges": resp.Scenario.ChallengeOptions}, &resp), http.StatusOK)
	if fb := resp.Session.Feedback; fb == nil || !fb.StageCorrect || !fb.Challenges.Exact {
		t.Fatalf("unexpected feedback: %+v", fb)
	}

	resp = maturityBody{}
	expectStatus(t, do(t, h, http.MethodPost, base+"/next", nil, &resp), http.StatusOK)
	if resp.Position != 2 || resp.Session.Feedback != nil {
		t.Fatalf("next should move on and clear feedback: %+v", resp)
	}
	expectStatus(t, do(t, h, http.MethodPost, base+"/reset", nil, &resp), http.StatusOK)
	if resp.Position != 1 {
		t.Fatalf("reset position = %d", resp.Position)
	}
}

func TestContentEndpoints(t *testing.T) {
	h := newTestServer(t)

	var cards []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	expectStatus(t, do(t, h, http.MethodGet, "/api/v1/flipcards", nil, &cards), http.StatusOK)
	if len(cards) != 10 {
		t.Fatalf("flipcards = %d", len(cards))
	}

	var pairs []struct {
		Persona string `json:"persona"`
	}
	expectStatus(t, do(t, h, http.MethodGet, "/api/v1/pairs", nil, &pairs), http.StatusOK)
	if len(pairs) != 5 {
		t.Fatalf("pairs = %d", len(pairs))
	}

	tests := []struct {
		name    string
		body    map[string]string
		result  string
		correct string
	}{
		{"correct", map[string]string{"persona": "Finance Analyst (Allied)", "responsibility": "Handles budgeting"}, "correct", ""},
		{"incorrect", map[string]string{"persona": "Finance Analyst (Allied)", "responsibility": "Optimizes resources"}, "incorrect", "Handles budgeting"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got struct {
				Result        string `json:"result"`
				CorrectAnswer string `json:"correct_answer"`
			}
			expectStatus(t, do(t, h, http.MethodPost, "/api/v1/pairs/check", tc.body, &got), http.StatusOK)
			if got.Result != tc.result || got.CorrectAnswer != tc.correct {
				t.Fatalf("got %+v", got)
			}
		})
	}

	expectError(t, do(t, h, http.MethodPost, "/api/v1/pairs/check",
		map[string]string{"persona": "Wizard", "responsibility": "Handles budgeting"}, nil), http.StatusNotFound, "NOT_FOUND")
}

func TestCORSPreflight(t *testing.T) {
	s, err := NewServer(Options{CORSOrigins: []string{"http://localhost:5173"}})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/savings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>arcade</html>"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := NewServer(Options{StaticDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/savings-game", nil, nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "arcade") {
		t.Fatalf("expected index.html, got %q", rec.Body.String())
	}
	expectStatus(t, do(t, h, http.MethodGet, "/api/v1/unknown", nil, nil), http.StatusNotFound)
}
