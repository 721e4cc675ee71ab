//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/goal-planner/backend/internal/application/usecase/plan"
	"github.com/goal-planner/backend/internal/domain/entity"
	"github.com/goal-planner/backend/internal/integration/adapters"
	"github.com/goal-planner/backend/internal/integration/persistence"
	"github.com/goal-planner/backend/internal/integration/persistence/model"
)

func (t *testContext) theAPIServerIsRunning() error {
	t.startServer()
	return nil
}

func (t *testContext) theCurrentTimeIs(value string) error {
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", value, err)
	}
	testClock.SetCurrentTime(now)
	return nil
}

// iAmLoggedInAs issues an access token for a user whose ID is derived from the email,
// so the same email always maps to the same user.
func (t *testContext) iAmLoggedInAs(email string) error {
	t.currentUserID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email))

	token, err := adapters.NewTokenService(testJWTSecret, testClock).
		GenerateAccessToken(context.Background(), t.currentUserID, email)
	if err != nil {
		return err
	}
	t.accessToken = token
	return nil
}

// myAccessTokenHasExpired moves the clock past the access token lifetime.
func (t *testContext) myAccessTokenHasExpired() error {
	testClock.SetCurrentTime(testClock.Now().Add(time.Hour))
	return nil
}

func (t *testContext) myMonthlyIncomeIsAndMyExpensesAre(income, expenses string) error {
	if t.currentUserID == uuid.Nil {
		return errors.New("no user is logged in")
	}
	incomeAmount, err := decimal.NewFromString(income)
	if err != nil {
		return fmt.Errorf("invalid income %q: %w", income, err)
	}
	expensesAmount, err := decimal.NewFromString(expenses)
	if err != nil {
		return fmt.Errorf("invalid expenses %q: %w", expenses, err)
	}

	budget := entity.NewBudgetProfile(t.currentUserID, incomeAmount, expensesAmount, entity.FundingStyleWaterfall)
	return persistence.NewBudgetRepository(t.db.DbConn).Save(context.Background(), budget)
}

// aGoalExistsWithAmountDue stores a goal with zero custom rates, so its required
// payment is the amount spread evenly over the horizon.
func (t *testContext) aGoalExistsWithAmountDue(name, amount, due string) error {
	if t.currentUserID == uuid.Nil {
		return errors.New("no user is logged in")
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	targetDate, err := time.Parse("2006-01-02", due)
	if err != nil {
		return fmt.Errorf("invalid due date %q: %w", due, err)
	}

	goal := entity.NewGoal(t.currentUserID, name, entity.GoalCategoryOther, targetDate, value, entity.RiskProfileBalanced)
	goal.CustomRates = &entity.RateSet{High: decimal.Zero, Mid: decimal.Zero, Low: decimal.Zero}
	goal.CreatedAt = testClock.Now().Add(time.Duration(len(t.goalIDs)) * time.Second)
	goal.UpdatedAt = goal.CreatedAt

	if err := persistence.NewGoalRepository(t.db.DbConn).Create(context.Background(), goal); err != nil {
		return err
	}
	t.goalIDs[name] = goal.ID
	t.currentGoalID = goal.ID
	return nil
}

// goalHasAStoredProgressEntry writes a progress row directly, bypassing the
// cumulative recomputation, to simulate drifted history.
func (t *testContext) goalHasAStoredProgressEntry(name, month, actual, cumulative string) error {
	goalID, ok := t.goalIDs[name]
	if !ok {
		return fmt.Errorf("goal %q was not created in this scenario", name)
	}
	monthYear, err := time.Parse("2006-01", month)
	if err != nil {
		return fmt.Errorf("invalid month %q: %w", month, err)
	}
	actualAmount, err := decimal.NewFromString(actual)
	if err != nil {
		return fmt.Errorf("invalid actual amount %q: %w", actual, err)
	}
	cumulativeActual, err := decimal.NewFromString(cumulative)
	if err != nil {
		return fmt.Errorf("invalid cumulative amount %q: %w", cumulative, err)
	}

	now := testClock.Now()
	entry := entity.GoalProgressEntry{
		ID:                uuid.New(),
		GoalID:            goalID,
		UserID:            t.currentUserID,
		MonthYear:         monthYear,
		PlannedAmount:     decimal.NewFromInt(100),
		ActualAmount:      actualAmount,
		CumulativePlanned: decimal.NewFromInt(100),
		CumulativeActual:  cumulativeActual,
		Variance:          cumulativeActual.Sub(decimal.NewFromInt(100)),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return t.db.DbConn.Create(model.ProgressEntryFromEntity(entry)).Error
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	path = t.replacePlaceholders(path)
	return t.executeRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	path = t.replacePlaceholders(path)

	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, path, payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{goal_id}}", t.currentGoalID.String())
	content = strings.ReplaceAll(content, "{{user_id}}", t.currentUserID.String())
	for name, id := range t.goalIDs {
		content = strings.ReplaceAll(content, "{{goal:"+name+"}}", id.String())
	}
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.uri+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// Capture the goal ID of goal responses
	if idStr, ok := responseBody["id"].(string); ok {
		if _, isGoal := responseBody["required_pmt"]; isGoal {
			if id, err := uuid.Parse(idStr); err == nil {
				t.currentGoalID = id
				if name, ok := responseBody["name"].(string); ok {
					t.goalIDs[name] = id
				}
			}
		}
	}

	return nil
}

func (t *testContext) responseObject() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	_, err := t.responseObject()
	return err
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != t.replacePlaceholders(expectedValue) {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, count int) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, body)
	}
	if len(items) != count {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, count, len(items))
	}
	return nil
}

func (t *testContext) findRows(table string, criteria map[string]any) (int, error) {
	row, ok := t.db.GetModel(table)
	if !ok {
		return 0, fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(row).Elem()
	entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
	entitySlicePtr := reflect.New(entitySlice.Type())
	entitySlicePtr.Elem().Set(entitySlice)

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, result.Error
	}
	return entitySlicePtr.Elem().Len(), nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	count, err := t.findRows(table, nil)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	count, err := t.findRows(table, criteria)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func (t *testContext) currentPlanKey() string {
	return plan.CacheKey(t.currentUserID, testClock.Now())
}

func (t *testContext) thePlanCacheShouldContainMyCurrentPlan() error {
	n, err := t.redis.Client.Exists(context.Background(), t.currentPlanKey()).Result()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("expected plan cache key %s to exist", t.currentPlanKey())
	}
	return nil
}

func (t *testContext) thePlanCacheShouldNotContainMyCurrentPlan() error {
	n, err := t.redis.Client.Exists(context.Background(), t.currentPlanKey()).Result()
	if err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("expected plan cache key %s to be absent", t.currentPlanKey())
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	var field any = objectMap
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}

	return field
}
