package bankxledger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/arhyth/bankxledger"
	"github.com/arhyth/bankxledger/mocks"
)

var nooplog = zerolog.Nop()

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func TestHTTPCreateAccount(t *testing.T) {
	t.Run("returns the new account", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			CreateAccount(gomock.AssignableToTypeOf(bankxledger.CreateAccountReq{})).
			DoAndReturn(func(r bankxledger.CreateAccountReq) (*bankxledger.Account, error) {
				as.Equal("Alice", r.CustomerName)
				as.Equal(bankxledger.AccountTypeSavings, r.AccountType)
				as.True(r.InitialDeposit.Equal(dec("1000")))
				as.True(r.MinimumBalance.Equal(dec("100")))
				return &bankxledger.Account{
					AcctID:        snowflake.ParseInt64(1834563581361305763),
					AccountNumber: "BANK-20240315-0A1B2C3D",
					CustomerName:  r.CustomerName,
					AccountType:   r.AccountType,
					Balance:       r.InitialDeposit,
					IsActive:      true,
				}, nil
			})

		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})
		w := serve(hndlr, http.MethodPost, "/accounts",
			`{"customer_name":"Alice","account_type":"savings","initial_deposit":1000.00,"minimum_balance":"100"}`)

		as.Equal(http.StatusCreated, w.Code)
		resp := map[string]any{}
		decodeBody(tt, w, &resp)
		as.Equal("1834563581361305763", resp["id"])
		as.Equal("BANK-20240315-0A1B2C3D", resp["account_number"])
		as.Equal("1000", resp["balance"])
		as.Equal(true, resp["is_active"])
	})

	t.Run("reports invalid fields by json name", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts", `{"account_type":"gold"}`)
		as.Equal(http.StatusBadRequest, w.Code)
		resp := bankxledger.ErrBadRequest{}
		decodeBody(tt, w, &resp)
		as.Equal(map[string]string{
			"customer_name": "required",
			"account_type":  "oneof",
		}, resp.Fields)
	})

	t.Run("rejects malformed JSON", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts", `{"customer_name":`)
		as.Equal(http.StatusBadRequest, w.Code)
		resp := bankxledger.ErrBadRequest{}
		decodeBody(tt, w, &resp)
		as.Equal("malformed JSON", resp.Fields["request body"])
	})
}

func TestHTTPDeposit(t *testing.T) {
	t.Run("returns the new balance", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		bal := decimal.NewFromInt(1234)
		svc.EXPECT().
			Deposit(gomock.AssignableToTypeOf(bankxledger.ChargeReq{})).
			DoAndReturn(func(r bankxledger.ChargeReq) (*decimal.Decimal, error) {
				as.Equal(snowflake.ParseInt64(1834563581361305763), r.AcctID)
				as.True(r.Amount.Equal(dec("1234")))
				as.Equal("payday", r.Description)
				return &bal, nil
			})

		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})
		w := serve(hndlr, http.MethodPost, "/accounts/1834563581361305763/deposit",
			`{"amount":1234.00,"description":"payday"}`)

		as.Equal(http.StatusOK, w.Code)
		resp := map[string]string{}
		decodeBody(tt, w, &resp)
		as.Equal("1234", resp["balance"])
	})

	t.Run("unroutable account IDs are not found", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts/24j24g*()/deposit", `{"amount":1}`)
		as.Equal(http.StatusNotFound, w.Code)
		resp := map[string]string{}
		decodeBody(tt, w, &resp)
		as.Contains(resp, "path")
	})

	t.Run("out of range account IDs are bad requests", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts/99999999999999999999/deposit", `{"amount":1}`)
		as.Equal(http.StatusBadRequest, w.Code)
		resp := bankxledger.ErrBadRequest{}
		decodeBody(tt, w, &resp)
		as.Equal("invalid format", resp.Fields["acctID"])
	})
}

func TestHTTPErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", bankxledger.ErrNotFound{ID: 7}, http.StatusNotFound, "account 7 not found"},
		{"inactive", bankxledger.ErrInactive{ID: 7}, http.StatusConflict, "account 7 is not active"},
		{"frozen", bankxledger.ErrFrozen{ID: 7}, http.StatusLocked, "account 7 is frozen"},
		{"insufficient", bankxledger.ErrInsufficientFunds{ID: 7, Available: dec("5"), Required: dec("10")},
			http.StatusUnprocessableEntity, "insufficient funds in account 7: required 10.00, available 5.00"},
		{"daily limit", bankxledger.ErrDailyLimitExceeded{ID: 7, Limit: dec("500"), TodayTotal: dec("400"), Requested: dec("200")},
			http.StatusUnprocessableEntity, "daily withdrawal limit exceeded for account 7: limit 500.00, today's withdrawals 400.00, requested 200.00"},
		{"overloaded", bankxledger.ErrOverloaded, http.StatusServiceUnavailable, bankxledger.ErrOverloaded.Error()},
		{"lock timeout", bankxledger.ErrLockTimeout, http.StatusServiceUnavailable, bankxledger.ErrLockTimeout.Error()},
		{"unknown", errors.New("secret dsn"), http.StatusInternalServerError, "server error"},
	}
	for _, c := range cases {
		t.Run(c.name, func(tt *testing.T) {
			as := assert.New(tt)
			ctrl := gomock.NewController(tt)
			svc := mocks.NewMockService(ctrl)
			svc.EXPECT().Withdraw(gomock.Any()).Return(nil, c.err)
			hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

			w := serve(hndlr, http.MethodPost, "/accounts/7/withdraw", `{"amount":"10"}`)
			as.Equal(c.status, w.Code)
			as.Equal(c.status, bankxledger.HTTPStatus(c.err))
			resp := map[string]string{}
			decodeBody(tt, w, &resp)
			as.Equal(c.msg, resp["message"])
		})
	}

	t.Run("conflicts", func(tt *testing.T) {
		as := assert.New(tt)
		as.Equal(http.StatusConflict, bankxledger.HTTPStatus(bankxledger.ErrAlreadyFrozen{ID: 1}))
		as.Equal(http.StatusConflict, bankxledger.HTTPStatus(bankxledger.ErrNotFrozen{ID: 1}))
		as.Equal(http.StatusBadRequest, bankxledger.HTTPStatus(bankxledger.ErrBadRequest{}))
	})
}

type storeFailureResp struct {
	Message      string            `json:"message"`
	Op           string            `json:"op"`
	AcctID       string            `json:"account_id"`
	Committed    bool              `json:"committed"`
	Inconsistent bool              `json:"inconsistent"`
	Result       map[string]string `json:"result"`
}

func TestHTTPStoreFailures(t *testing.T) {
	t.Run("a committed deposit reports its balance", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		bal := dec("150")
		svc.EXPECT().Deposit(gomock.Any()).Return(&bal, bankxledger.ErrStoreWrite{
			Op: "append_transaction", ID: 7, Committed: true, Err: errors.New("secret dsn"),
		})
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts/7/deposit", `{"amount":"50"}`)
		as.Equal(http.StatusInternalServerError, w.Code)
		resp := storeFailureResp{}
		decodeBody(tt, w, &resp)
		as.True(resp.Committed)
		as.False(resp.Inconsistent)
		as.Equal("append_transaction", resp.Op)
		as.Equal("7", resp.AcctID)
		as.Equal("store append_transaction failed for account 7 (balance change committed)", resp.Message)
		as.Equal("150", resp.Result["balance"])
		as.NotContains(w.Body.String(), "secret dsn")
	})

	t.Run("a failed balance write reports nothing moved", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().Withdraw(gomock.Any()).Return(nil, bankxledger.ErrStoreWrite{Op: "update_balance", ID: 7})
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts/7/withdraw", `{"amount":"50"}`)
		as.Equal(http.StatusInternalServerError, w.Code)
		resp := storeFailureResp{}
		decodeBody(tt, w, &resp)
		as.False(resp.Committed)
		as.Equal("store update_balance failed for account 7", resp.Message)
		as.Nil(resp.Result)
	})

	t.Run("an inconsistent transfer is flagged", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().Transfer(gomock.Any()).Return(nil, bankxledger.ErrStoreWrite{
			Op: "update_balance", ID: 11, Inconsistent: true,
		})
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts/11/transfer", `{"to_account_id":"22","amount":"5"}`)
		as.Equal(http.StatusInternalServerError, w.Code)
		resp := storeFailureResp{}
		decodeBody(tt, w, &resp)
		as.True(resp.Inconsistent)
		as.Contains(resp.Message, "balances left inconsistent")
	})

	t.Run("a committed transfer reports both balances", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().Transfer(gomock.Any()).Return(
			&bankxledger.TransferResult{FromBalance: dec("95"), ToBalance: dec("5")},
			bankxledger.ErrStoreWrite{Op: "append_transaction", ID: 22, Committed: true},
		)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts/11/transfer", `{"to_account_id":"22","amount":"5"}`)
		resp := storeFailureResp{}
		decodeBody(tt, w, &resp)
		as.True(resp.Committed)
		as.Equal("95", resp.Result["from_balance"])
		as.Equal("5", resp.Result["to_balance"])
	})
}

func TestHTTPTransfers(t *testing.T) {
	t.Run("transfer takes the source from the path", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			Transfer(gomock.AssignableToTypeOf(bankxledger.TransferReq{})).
			DoAndReturn(func(r bankxledger.TransferReq) (*bankxledger.TransferResult, error) {
				as.Equal(snowflake.ID(11), r.FromID)
				as.Equal(snowflake.ID(22), r.ToID)
				as.True(r.Amount.Equal(dec("250.50")))
				return &bankxledger.TransferResult{FromBalance: dec("749.50"), ToBalance: dec("250.50")}, nil
			})
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts/11/transfer", `{"to_account_id":"22","amount":"250.50"}`)
		as.Equal(http.StatusOK, w.Code)
		resp := map[string]string{}
		decodeBody(tt, w, &resp)
		as.Equal("749.5", resp["from_balance"])
	})

	t.Run("transfer needs a destination", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts/11/transfer", `{"amount":"1"}`)
		as.Equal(http.StatusBadRequest, w.Code)
		resp := bankxledger.ErrBadRequest{}
		decodeBody(tt, w, &resp)
		as.Equal("required", resp.Fields["to_account_id"])
	})

	t.Run("bulk transfer validates every leg", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts/11/bulk-transfer",
			`{"transfers":[{"to_account_id":"22","amount":"1"},{"amount":"2"}]}`)
		as.Equal(http.StatusBadRequest, w.Code)
		resp := bankxledger.ErrBadRequest{}
		decodeBody(tt, w, &resp)
		as.Equal(map[string]string{"transfers[1].to_account_id": "required"}, resp.Fields)

		w = serve(hndlr, http.MethodPost, "/accounts/11/bulk-transfer", `{"transfers":[]}`)
		as.Equal(http.StatusBadRequest, w.Code)
	})

	t.Run("bulk transfer returns the report", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			BulkTransfer(gomock.AssignableToTypeOf(bankxledger.BulkTransferReq{})).
			DoAndReturn(func(r bankxledger.BulkTransferReq) (*bankxledger.BulkTransferReport, error) {
				as.Equal(snowflake.ID(11), r.FromID)
				as.Len(r.Legs, 2)
				return &bankxledger.BulkTransferReport{
					TotalAmount:     dec("3"),
					SuccessfulCount: 1,
					FailedCount:     1,
					Successful:      []bankxledger.LegResult{{ToID: 22, Amount: dec("1"), Status: bankxledger.LegSucceeded}},
					Failed:          []bankxledger.LegResult{{ToID: 33, Amount: dec("2"), Status: bankxledger.LegFailed, Error: "boom"}},
				}, nil
			})
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts/11/bulk-transfer",
			`{"transfers":[{"to_account_id":"22","amount":"1"},{"to_account_id":"33","amount":"2"}]}`)
		as.Equal(http.StatusOK, w.Code)
		as.Contains(w.Body.String(), `"failed_count":1`)
		as.Contains(w.Body.String(), `"error":"boom"`)
	})
}

func TestHTTPAccountSettings(t *testing.T) {
	t.Run("freeze works without a body", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().FreezeAccount(bankxledger.FreezeReq{AcctID: 5}).Return(nil)
		svc.EXPECT().UnfreezeAccount(bankxledger.FreezeReq{AcctID: 5, Reason: "cleared"}).Return(nil)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodPost, "/accounts/5/freeze", "")
		as.Equal(http.StatusOK, w.Code)
		w = serve(hndlr, http.MethodPost, "/accounts/5/unfreeze", `{"reason":"cleared"}`)
		as.Equal(http.StatusOK, w.Code)
		resp := map[string]string{}
		decodeBody(tt, w, &resp)
		as.Equal("OK", resp["status"])
	})

	t.Run("a null daily limit removes it", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		gomock.InOrder(
			svc.EXPECT().
				SetDailyWithdrawalLimit(gomock.AssignableToTypeOf(bankxledger.DailyLimitReq{})).
				DoAndReturn(func(r bankxledger.DailyLimitReq) error {
					as.True(r.Limit.Valid)
					as.True(r.Limit.Decimal.Equal(dec("500")))
					return nil
				}),
			svc.EXPECT().
				SetDailyWithdrawalLimit(gomock.AssignableToTypeOf(bankxledger.DailyLimitReq{})).
				DoAndReturn(func(r bankxledger.DailyLimitReq) error {
					as.False(r.Limit.Valid)
					return nil
				}),
		)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		as.Equal(http.StatusOK, serve(hndlr, http.MethodPut, "/accounts/5/daily-limit", `{"limit":"500"}`).Code)
		as.Equal(http.StatusOK, serve(hndlr, http.MethodPut, "/accounts/5/daily-limit", `{"limit":null}`).Code)
	})

	t.Run("interest endpoints", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().SetInterestRate(gomock.AssignableToTypeOf(bankxledger.InterestRateReq{})).Return(nil)
		svc.EXPECT().CalculateInterest(snowflake.ID(5)).Return(dec("20.55"), nil)
		svc.EXPECT().DeactivateAccount(snowflake.ID(5)).Return(bankxledger.ErrBadRequest{Fields: map[string]string{"balance": "non-zero"}})
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		as.Equal(http.StatusOK, serve(hndlr, http.MethodPut, "/accounts/5/interest-rate", `{"rate":"2.5"}`).Code)
		w := serve(hndlr, http.MethodPost, "/accounts/5/interest", "")
		as.Equal(http.StatusOK, w.Code)
		resp := map[string]string{}
		decodeBody(tt, w, &resp)
		as.Equal("20.55", resp["interest"])
		as.Equal(http.StatusBadRequest, serve(hndlr, http.MethodPost, "/accounts/5/deactivate", "").Code)
	})
}

func TestHTTPQueries(t *testing.T) {
	t.Run("history reads the limit", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().History(bankxledger.HistoryReq{AcctID: 5, Limit: 3}).Return([]bankxledger.Transaction{}, nil)
		svc.EXPECT().History(bankxledger.HistoryReq{AcctID: 5, Limit: bankxledger.DefaultHistoryLimit}).Return(nil, nil)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodGet, "/accounts/5/history?limit=3", "")
		as.Equal(http.StatusOK, w.Code)
		as.Equal("[]\n", w.Body.String())
		as.Equal(http.StatusOK, serve(hndlr, http.MethodGet, "/accounts/5/history", "").Code)
		as.Equal(http.StatusBadRequest, serve(hndlr, http.MethodGet, "/accounts/5/history?limit=ten", "").Code)
	})

	t.Run("statistics and statements read their query", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().
			AccountStatistics(bankxledger.StatisticsReq{AcctID: 5, Days: 7}).
			Return(&bankxledger.AccountStatistics{PeriodDays: 7}, nil)
		svc.EXPECT().
			MonthlyStatement(bankxledger.StatementReq{AcctID: 5, Year: 2024, Month: time.February}).
			Return(&bankxledger.MonthlyStatement{Period: "2024-02"}, nil)
		svc.EXPECT().AccountSummary(snowflake.ID(5)).Return(&bankxledger.AccountSummary{}, nil)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		as.Equal(http.StatusOK, serve(hndlr, http.MethodGet, "/accounts/5/statistics?days=7", "").Code)
		w := serve(hndlr, http.MethodGet, "/accounts/5/statement?year=2024&month=2", "")
		as.Equal(http.StatusOK, w.Code)
		as.Contains(w.Body.String(), `"period":"2024-02"`)
		as.Equal(http.StatusOK, serve(hndlr, http.MethodGet, "/accounts/5/summary", "").Code)
	})

	t.Run("statement pdf", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		svc := mocks.NewMockService(ctrl)
		gomock.InOrder(
			svc.EXPECT().
				Statement(gomock.Any(), bankxledger.StatementReq{AcctID: 5, Year: 2024, Month: time.March}).
				DoAndReturn(func(w io.Writer, _ bankxledger.StatementReq) error {
					_, err := io.WriteString(w, "%PDF-1.3 test")
					return err
				}),
			svc.EXPECT().
				Statement(gomock.Any(), gomock.Any()).
				DoAndReturn(func(w io.Writer, _ bankxledger.StatementReq) error {
					io.WriteString(w, "%PDF-partial")
					return bankxledger.ErrNotFound{ID: 5}
				}),
		)
		hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

		w := serve(hndlr, http.MethodGet, "/accounts/5/statement.pdf?year=2024&month=3", "")
		as.Equal(http.StatusOK, w.Code)
		as.Equal("application/pdf", w.Header().Get("Content-Type"))
		as.Contains(w.Header().Get("Content-Disposition"), "statement-5-2024-03.pdf")
		as.Equal("%PDF-1.3 test", w.Body.String())

		w = serve(hndlr, http.MethodGet, "/accounts/5/statement.pdf?year=2024&month=3", "")
		as.Equal(http.StatusNotFound, w.Code)
		as.Equal("application/json", w.Header().Get("Content-Type"))
		as.NotContains(w.Body.String(), "%PDF")
	})

	t.Run("unknown paths", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		hndlr := bankxledger.NewHTTPHandler(mocks.NewMockService(ctrl), &nooplog, bankxledger.HTTPOptions{})
		w := serve(hndlr, http.MethodGet, "/ledgers", "")
		as.Equal(http.StatusNotFound, w.Code)
		as.Equal("DENY", w.Header().Get("X-Frame-Options"))
		as.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
	})
}

func TestHTTPRateLimit(t *testing.T) {
	as := assert.New(t)
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	svc.EXPECT().ListAccounts().Return([]bankxledger.Account{}, nil).Times(2)
	hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{RatePerMinute: 2})

	as.Equal(http.StatusOK, serve(hndlr, http.MethodGet, "/accounts", "").Code)
	as.Equal(http.StatusOK, serve(hndlr, http.MethodGet, "/accounts", "").Code)
	w := serve(hndlr, http.MethodGet, "/accounts", "")
	as.Equal(http.StatusTooManyRequests, w.Code)
	as.Contains(w.Body.String(), "too many requests")
}

func TestHTTPEndToEnd(t *testing.T) {
	as := assert.New(t)
	reqrd := require.New(t)
	svc, _, _ := newMemoryService(t)
	hndlr := bankxledger.NewHTTPHandler(svc, &nooplog, bankxledger.HTTPOptions{})

	w := serve(hndlr, http.MethodPost, "/accounts", `{"customer_name":"Alice","initial_deposit":"1000","minimum_balance":"100"}`)
	reqrd.Equal(http.StatusCreated, w.Code, w.Body.String())
	var acct bankxledger.Account
	decodeBody(t, w, &acct)
	base := "/accounts/" + acct.AcctID.String()

	w = serve(hndlr, http.MethodPost, base+"/withdraw", `{"amount":"950"}`)
	as.Equal(http.StatusUnprocessableEntity, w.Code)
	as.Contains(w.Body.String(), "insufficient funds")

	w = serve(hndlr, http.MethodPost, base+"/withdraw", `{"amount":"900"}`)
	as.Equal(http.StatusOK, w.Code)

	as.Equal(http.StatusOK, serve(hndlr, http.MethodPost, base+"/freeze", `{"reason":"audit"}`).Code)
	w = serve(hndlr, http.MethodPost, base+"/withdraw", `{"amount":"1"}`)
	as.Equal(http.StatusLocked, w.Code)
	as.Equal(http.StatusConflict, serve(hndlr, http.MethodPost, base+"/freeze", "").Code)

	w = serve(hndlr, http.MethodGet, base+"/balance", "")
	resp := map[string]string{}
	decodeBody(t, w, &resp)
	as.Equal("100", resp["balance"])

	w = serve(hndlr, http.MethodGet, base+"/history?limit=2", "")
	var txns []bankxledger.Transaction
	decodeBody(t, w, &txns)
	reqrd.Len(txns, 2)
	as.True(strings.HasPrefix(txns[0].Description, "Account frozen"))
	as.Equal(bankxledger.TxnWithdrawal, txns[1].Type)

	as.Equal(http.StatusNotFound, serve(hndlr, http.MethodGet, "/accounts/42/balance", "").Code)
}
