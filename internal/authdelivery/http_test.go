package authdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"

	"github.com/acmebank/ledger/internal/domain"
	"github.com/acmebank/ledger/pkg/errorspkg"
	"github.com/acmebank/ledger/pkg/tokenpkg"
	"github.com/acmebank/ledger/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestLoginHandler(t *testing.T) {
	user := domain.User{
		ID:        7,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      domain.RoleCustomer,
	}

	payload, err := tokenpkg.NewPayload(user.ID, time.Minute)
	if err != nil {
		t.Fatalf("tokenpkg.NewPayload() returned error: %v", err)
	}

	testCases := []struct {
		name           string
		requestBody    gin.H
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "OK",
			requestBody: gin.H{"user_id": 7, "password": "secret-password"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Eq(int32(7)), gomock.Eq("secret-password")).
					Times(1).
					Return("access-token", payload, user, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "UserNotFound",
			requestBody: gin.H{"user_id": 404, "password": "secret-password"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Eq(int32(404)), gomock.Any()).
					Times(1).
					Return("", nil, domain.User{}, domain.ErrUserNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrUserNotFound.Error(),
		},
		{
			name:        "WrongPassword",
			requestBody: gin.H{"user_id": 7, "password": "wrong-password"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return("", nil, domain.User{}, domain.ErrWrongPassword)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      domain.ErrWrongPassword.Error(),
		},
		{
			name:        "AccountLocked",
			requestBody: gin.H{"user_id": 7, "password": "secret-password"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return("", nil, domain.User{}, &domain.AccountLockedError{Remaining: 42 * time.Second})
			},
			wantStatusCode: http.StatusForbidden,
			wantError:      (&domain.AccountLockedError{Remaining: 42 * time.Second}).Error(),
		},
		{
			name:        "ShortPassword",
			requestBody: gin.H{"user_id": 7, "password": "abc"},
			buildStubs: func(service *MockService) {
				service.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Password must be at least 6",
		},
		{
			name:        "InternalServerError",
			requestBody: gin.H{"user_id": 7, "password": "secret-password"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Login(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return("", nil, domain.User{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			handler := NewHandler(service)

			server := gin.New()
			server.POST("/login", handler.Login)

			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			var res web.Response
			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf("res.Error=%q, want %q", res.Error, tc.wantError)
				}

				return
			}

			if res.AccessToken != "access-token" {
				t.Errorf("res.AccessToken=%q, want %q", res.AccessToken, "access-token")
			}
		})
	}
}
