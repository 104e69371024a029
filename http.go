package bankxledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/unrolled/secure"
)

type balanceJSONResp struct {
	Balance decimal.Decimal `json:"balance"`
}

type interestJSONResp struct {
	Interest decimal.Decimal `json:"interest"`
}

// storeWriteJSONResp describes a failed store call. Result carries what the
// call returned when its balance change was committed anyway.
type storeWriteJSONResp struct {
	Message      string `json:"message"`
	Op           string `json:"op"`
	AcctID       int64  `json:"account_id,string"`
	Committed    bool   `json:"committed"`
	Inconsistent bool   `json:"inconsistent"`
	Result       any    `json:"result,omitempty"`
}

type HTTPOptions struct {
	// RatePerMinute caps requests per client IP; zero disables the limiter.
	RatePerMinute int
	IsDevelopment bool
}

func NewHTTPHandler(svc Service, log *zerolog.Logger, opts HTTPOptions) http.Handler {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	hndlr := &httpHandler{
		Svc:      svc,
		Log:      log,
		Validate: newValidator(),
		Now:      time.Now,
	}
	mux := chi.NewMux()
	mux.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
		IsDevelopment:      opts.IsDevelopment,
	}).Handler)
	if opts.RatePerMinute > 0 {
		mux.Use(httprate.Limit(opts.RatePerMinute, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"message": "too many requests"})
			}),
		))
	}
	mux.NotFound(HTTPNotFound)
	mux.Route("/accounts", func(r chi.Router) {
		r.Post("/", hndlr.CreateAccount)
		r.Get("/", hndlr.ListAccounts)
		r.Route("/{acctID:[0-9]+}", func(rr chi.Router) {
			rr.Get("/", hndlr.Account)
			rr.Post("/deposit", hndlr.Deposit)
			rr.Post("/withdraw", hndlr.Withdraw)
			rr.Post("/transfer", hndlr.Transfer)
			rr.Post("/bulk-transfer", hndlr.BulkTransfer)
			rr.Post("/freeze", hndlr.Freeze)
			rr.Post("/unfreeze", hndlr.Unfreeze)
			rr.Put("/daily-limit", hndlr.DailyLimit)
			rr.Put("/interest-rate", hndlr.InterestRate)
			rr.Post("/interest", hndlr.CalculateInterest)
			rr.Post("/deactivate", hndlr.Deactivate)
			rr.Get("/balance", hndlr.Balance)
			rr.Get("/history", hndlr.History)
			rr.Get("/summary", hndlr.Summary)
			rr.Get("/statistics", hndlr.Statistics)
			rr.Get("/statement", hndlr.MonthlyStatement)
			rr.Get("/statement.pdf", hndlr.StatementPDF)
		})
	})

	return mux
}

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type httpHandler struct {
	Svc      Service
	Log      *zerolog.Logger
	Validate *validator.Validate
	Now      func() time.Time
}

func (h *httpHandler) decode(r *http.Request, method string, dst any) error {
	buf, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		h.Log.Err(err).Str("method", method).Msg("error reading HTTP request")
		return ErrInternalServer
	}
	if err = json.Unmarshal(buf, dst); err != nil {
		h.Log.Err(err).Str("method", method).Msg("error unmarshalling JSON")
		return badRequest("request body", "malformed JSON")
	}
	if err = h.Validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return ErrInternalServer
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fe.Tag()
		}
		return ErrBadRequest{Fields: fields}
	}
	return nil
}

// fieldPath drops the struct name validator puts in front of the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func (h *httpHandler) acctID(r *http.Request, method string) (snowflake.ID, error) {
	pid := chi.URLParam(r, "acctID")
	acctID, err := snowflake.ParseString(pid)
	if err != nil {
		h.Log.Err(err).Str("method", method).Msg("error parsing account ID")
		return 0, badRequest("acctID", "invalid format")
	}
	return acctID, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(key, "must be an integer")
	}
	return n, nil
}

func (h *httpHandler) statementReq(r *http.Request, method string) (StatementReq, error) {
	acctID, err := h.acctID(r, method)
	if err != nil {
		return StatementReq{}, err
	}
	now := h.Now()
	year, err := queryInt(r, "year", now.Year())
	if err != nil {
		return StatementReq{}, err
	}
	month, err := queryInt(r, "month", int(now.Month()))
	if err != nil {
		return StatementReq{}, err
	}
	return StatementReq{AcctID: acctID, Year: year, Month: time.Month(month)}, nil
}

func (h *httpHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountReq
	if err := h.decode(r, "create_account", &req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	acct, err := h.Svc.CreateAccount(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

func (h *httpHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accts, err := h.Svc.ListAccounts()
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accts)
}

func (h *httpHandler) Account(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "account")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	acct, err := h.Svc.Account(acctID)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *httpHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "deposit")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	var req ChargeReq
	if err = h.decode(r, "deposit", &req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	req.AcctID = acctID
	bal, err := h.Svc.Deposit(req)
	if err != nil {
		writeMutationError(w, err, balanceResult(bal))
		return
	}
	writeJSON(w, http.StatusOK, balanceJSONResp{Balance: *bal})
}

func (h *httpHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "withdraw")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	var req ChargeReq
	if err = h.decode(r, "withdraw", &req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	req.AcctID = acctID
	bal, err := h.Svc.Withdraw(req)
	if err != nil {
		writeMutationError(w, err, balanceResult(bal))
		return
	}
	writeJSON(w, http.StatusOK, balanceJSONResp{Balance: *bal})
}

func (h *httpHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "transfer")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	var req TransferReq
	if err = h.decode(r, "transfer", &req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	req.FromID = acctID
	res, err := h.Svc.Transfer(req)
	if err != nil {
		var result any
		if res != nil {
			result = res
		}
		writeMutationError(w, err, result)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *httpHandler) BulkTransfer(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "bulk_transfer")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	var req BulkTransferReq
	if err = h.decode(r, "bulk_transfer", &req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	req.FromID = acctID
	report, err := h.Svc.BulkTransfer(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *httpHandler) freeze(w http.ResponseWriter, r *http.Request, method string, op func(FreezeReq) error) {
	acctID, err := h.acctID(r, method)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	var req FreezeReq
	if r.ContentLength != 0 {
		if err = h.decode(r, method, &req); err != nil {
			WriteHTTPError(w, err)
			return
		}
	}
	req.AcctID = acctID
	if err = op(req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *httpHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	h.freeze(w, r, "freeze", h.Svc.FreezeAccount)
}

func (h *httpHandler) Unfreeze(w http.ResponseWriter, r *http.Request) {
	h.freeze(w, r, "unfreeze", h.Svc.UnfreezeAccount)
}

func (h *httpHandler) DailyLimit(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "daily_limit")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	var req DailyLimitReq
	if err = h.decode(r, "daily_limit", &req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	req.AcctID = acctID
	if err = h.Svc.SetDailyWithdrawalLimit(req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *httpHandler) InterestRate(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "interest_rate")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	var req InterestRateReq
	if err = h.decode(r, "interest_rate", &req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	req.AcctID = acctID
	if err = h.Svc.SetInterestRate(req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *httpHandler) CalculateInterest(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "calculate_interest")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	interest, err := h.Svc.CalculateInterest(acctID)
	if err != nil {
		writeMutationError(w, err, interestJSONResp{Interest: interest})
		return
	}
	writeJSON(w, http.StatusOK, interestJSONResp{Interest: interest})
}

func (h *httpHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "deactivate")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	if err = h.Svc.DeactivateAccount(acctID); err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *httpHandler) Balance(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "balance")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	bal, err := h.Svc.Balance(acctID)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceJSONResp{Balance: *bal})
}

func (h *httpHandler) History(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "history")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", DefaultHistoryLimit)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	txns, err := h.Svc.History(HistoryReq{AcctID: acctID, Limit: limit})
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

func (h *httpHandler) Summary(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "summary")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	sum, err := h.Svc.AccountSummary(acctID)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *httpHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	acctID, err := h.acctID(r, "statistics")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	days, err := queryInt(r, "days", DefaultStatisticsDays)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	stats, err := h.Svc.AccountStatistics(StatisticsReq{AcctID: acctID, Days: days})
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *httpHandler) MonthlyStatement(w http.ResponseWriter, r *http.Request) {
	req, err := h.statementReq(r, "monthly_statement")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	st, err := h.Svc.MonthlyStatement(req)
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// StatementPDF renders into a buffer first so a failed render can still be
// reported with a proper status code.
func (h *httpHandler) StatementPDF(w http.ResponseWriter, r *http.Request) {
	req, err := h.statementReq(r, "statement_pdf")
	if err != nil {
		WriteHTTPError(w, err)
		return
	}
	buf := new(bytes.Buffer)
	if err = h.Svc.Statement(buf, req); err != nil {
		WriteHTTPError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`inline; filename="statement-%d-%04d-%02d.pdf"`, req.AcctID.Int64(), req.Year, int(req.Month)))
	w.WriteHeader(http.StatusOK)
	if _, err = io.Copy(w, buf); err != nil {
		h.Log.Err(err).Str("method", "statement_pdf").Msg("error writing statement")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().
			Err(err).
			Msg("response encoding failed")
	}
}

// HTTPStatus maps an engine error to the response status code.
func HTTPStatus(err error) int {
	switch {
	case errors.As(err, &ErrBadRequest{}):
		return http.StatusBadRequest
	case errors.As(err, &ErrNotFound{}):
		return http.StatusNotFound
	case errors.As(err, &ErrInactive{}),
		errors.As(err, &ErrAlreadyFrozen{}),
		errors.As(err, &ErrNotFrozen{}):
		return http.StatusConflict
	case errors.As(err, &ErrInsufficientFunds{}),
		errors.As(err, &ErrDailyLimitExceeded{}):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ErrFrozen{}):
		return http.StatusLocked
	case errors.Is(err, ErrOverloaded), errors.Is(err, ErrLockTimeout):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func WriteHTTPError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	errbr := &ErrBadRequest{}
	switch {
	case errors.As(err, errbr):
		writeJSON(w, status, errbr)
	case errors.As(err, &ErrStoreWrite{}):
		writeMutationError(w, err, nil)
	case status == http.StatusInternalServerError:
		writeJSON(w, status, map[string]string{"message": "server error"})
	default:
		writeJSON(w, status, map[string]string{"message": err.Error()})
	}
}

func balanceResult(bal *decimal.Decimal) any {
	if bal == nil {
		return nil
	}
	return balanceJSONResp{Balance: *bal}
}

// writeMutationError reports a store failure with its committed and
// inconsistent flags, adding result when the balance change went through.
// The underlying store error stays in the logs.
func writeMutationError(w http.ResponseWriter, err error, result any) {
	var sw ErrStoreWrite
	if !errors.As(err, &sw) {
		WriteHTTPError(w, err)
		return
	}
	resp := storeWriteJSONResp{
		Op:           sw.Op,
		AcctID:       sw.ID,
		Committed:    sw.Committed,
		Inconsistent: sw.Inconsistent,
	}
	if sw.Committed {
		resp.Result = result
	}
	sw.Err = nil
	resp.Message = sw.Error()
	writeJSON(w, http.StatusInternalServerError, resp)
}

func HTTPNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"path": r.URL.Path})
}
