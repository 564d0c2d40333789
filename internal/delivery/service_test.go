package delivery

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	_ "github.com/odyssey-erp/orderdesk/testing"
)

type memoryRepo struct {
	deliveries map[int64]Delivery
	nextID     int64
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) List(ctx context.Context) ([]Delivery, error) {
	out := []Delivery{}
	for id := int64(1); id <= r.nextID; id++ {
		if d, ok := r.deliveries[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Delivery, error) {
	d, ok := r.deliveries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (r *memoryRepo) Create(ctx context.Context, delivery Delivery) (int64, error) {
	r.nextID++
	delivery.ID = r.nextID
	r.deliveries[delivery.ID] = delivery
	return delivery.ID, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, patch UpdateDeliveryRequest) error {
	d, ok := r.deliveries[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Address != nil {
		d.Address = *patch.Address
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	if patch.OrderID != nil {
		d.OrderID = *patch.OrderID
	}
	r.deliveries[id] = d
	return nil
}

type orderSet map[int64]bool

func (o orderSet) Exists(ctx context.Context, id int64) (bool, error) {
	return o[id], nil
}

type DeliveryTestSuite struct {
	suite.Suite
	repo   *memoryRepo
	router chi.Router
}

func TestDeliveryTestSuite(t *testing.T) {
	suite.Run(t, new(DeliveryTestSuite))
}

func (s *DeliveryTestSuite) SetupTest() {
	s.repo = &memoryRepo{deliveries: make(map[int64]Delivery)}
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(s.repo, orderSet{1: true, 2: true}))
	s.router = chi.NewRouter()
	s.router.Route("/deliveries", handler.MountRoutes)
}

func (s *DeliveryTestSuite) call(method, path, body string) (int, map[string]any) {
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	var decoded map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &decoded)
	return rr.Code, decoded
}

func (s *DeliveryTestSuite) seed() {
	code, _ := s.call(http.MethodPost, "/deliveries", `{"address":"1 Main St","status":"pending","order_id":1}`)
	s.Require().Equal(http.StatusCreated, code)
}

func (s *DeliveryTestSuite) TestCreate() {
	code, body := s.call(http.MethodPost, "/deliveries", `{"address":"1 Main St","status":"pending","order_id":1}`)
	s.Equal(http.StatusCreated, code)
	s.Equal("Delivery created successfully", body["message"])
	s.EqualValues(1, body["id"])
}

func (s *DeliveryTestSuite) TestCreateMissingField() {
	code, body := s.call(http.MethodPost, "/deliveries", `{"address":"1 Main St","order_id":1}`)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Missing field: status", body["error"])
}

func (s *DeliveryTestSuite) TestCreateUnknownOrder() {
	code, body := s.call(http.MethodPost, "/deliveries", `{"address":"x","status":"pending","order_id":9}`)
	s.Equal(http.StatusNotFound, code)
	s.Equal("order does not exist", body["message"])
	s.Empty(s.repo.deliveries)
}

func (s *DeliveryTestSuite) TestUpdatePartial() {
	s.seed()
	code, body := s.call(http.MethodPut, "/deliveries/1", `{"address":"2 High St","order_id":2}`)
	s.Equal(http.StatusOK, code)
	s.Equal("Delivery updated successfully", body["message"])
	s.Equal("2 High St", s.repo.deliveries[1].Address)
	s.Equal(int64(2), s.repo.deliveries[1].OrderID)
	s.Equal("pending", s.repo.deliveries[1].Status)

	code, _ = s.call(http.MethodPut, "/deliveries/1", `{"order_id":8}`)
	s.Equal(http.StatusNotFound, code)
}

func (s *DeliveryTestSuite) TestDeleteSetsStatus() {
	s.seed()
	code, body := s.call(http.MethodDelete, "/deliveries/1", `{}`)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Missing field: status", body["error"])

	code, body = s.call(http.MethodDelete, "/deliveries/1", `{"status":"cancelled"}`)
	s.Equal(http.StatusOK, code)
	s.Equal("Delivery update successfully", body["message"])
	s.Equal("cancelled", s.repo.deliveries[1].Status)

	code, body = s.call(http.MethodDelete, "/deliveries/3", `{"status":"cancelled"}`)
	s.Equal(http.StatusNotFound, code)
	s.Equal("delivery not found", body["message"])
}
