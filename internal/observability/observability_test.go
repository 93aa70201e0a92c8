package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wbunit/web/internal/requestctx"
)

func TestParseCloudTraceContext(t *testing.T) {
	t.Parallel()

	info, sc, ok := parseCloudTraceContext("105445aa7843bc8bf206b12000100000/1;o=1")
	require.True(t, ok)
	require.Equal(t, "105445aa7843bc8bf206b12000100000", info.TraceID)
	require.Equal(t, "0000000000000001", info.SpanID)
	require.True(t, info.Sampled)
	require.True(t, sc.IsRemote())
	require.True(t, sc.IsSampled())

	for _, header := range []string{
		"",
		"not-a-trace",
		"105445aa7843bc8bf206b12000100000",
		"105445aa7843bc8bf206b12000100000/0;o=1",
		"zz5445aa7843bc8bf206b12000100000/1;o=1",
		"105445aa7843bc8bf206b12000100000/12345678901234567;o=1",
	} {
		_, _, ok := parseCloudTraceContext(header)
		require.False(t, ok, header)
	}
}

func TestFormatCloudTraceHeader(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", formatCloudTraceHeader(requestctx.TraceInfo{}))
	require.Equal(t, "abc/def;o=0", formatCloudTraceHeader(requestctx.TraceInfo{TraceID: "abc", SpanID: "def"}))
	require.Equal(t, "abc/def;o=1", formatCloudTraceHeader(requestctx.TraceInfo{TraceID: "abc", SpanID: "def", Sampled: true}))
}

func TestTraceKeepsIncomingIDs(t *testing.T) {
	t.Parallel()

	var got requestctx.TraceInfo
	handler := Trace("wb-unit")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = requestctx.Trace(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(cloudTraceHeader, "105445aa7843bc8bf206b12000100000/10;o=1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, "105445aa7843bc8bf206b12000100000", got.TraceID)
	require.Equal(t, "wb-unit", got.ProjectID)
	require.Equal(t, "105445aa7843bc8bf206b12000100000/0000000000000010;o=1", rec.Header().Get(cloudTraceHeader))
}

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	for level, want := range map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		" WARN ": zapcore.WarnLevel,
		"":       zapcore.InfoLevel,
		"chatty": zapcore.InfoLevel,
	} {
		logger, err := NewLogger(level)
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(want), level)
		if want > zapcore.DebugLevel {
			require.False(t, logger.Core().Enabled(want-1), level)
		}
	}
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	stack := InjectLogger(zap.New(core))(RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte("hello"))
		}
	})))

	for _, path := range []string{"/", "/missing", "/broken"} {
		stack.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.EqualValues(t, 5, entries[0].ContextMap()["bytes"])
	require.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	require.Equal(t, "/broken", entries[2].ContextMap()["path"])
}

func TestRecoveryAnswersWith500(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	handler := Recovery(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	require.Equal(t, "kaboom", entries[0].ContextMap()["panic"])
}

func TestRecoveryRepanicsOnAbort(t *testing.T) {
	t.Parallel()

	handler := Recovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestSanitizeRoute(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/", SanitizeRoute(""))
	require.Equal(t, "/ab", SanitizeRoute("/a\nb"))
	require.Len(t, SanitizeRoute("/"+string(make([]byte, 300))), 1)
	require.Equal(t, "GET", SanitizeMethod("GE\rT"))
}
