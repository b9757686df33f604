package benchmarks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OrlandoBitencourt/indexnow"
	"github.com/OrlandoBitencourt/indexnow/internal/filter"
	"github.com/OrlandoBitencourt/indexnow/internal/indexapi"
	"github.com/OrlandoBitencourt/indexnow/internal/storage"
)

func newAcceptingServer(b *testing.B) *httptest.Server {
	b.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	b.Cleanup(server.Close)
	return server
}

func newConfig() *indexnow.Config {
	return &indexnow.Config{
		APIKey:      "bench-key",
		KeyFileName: "bench-key.txt",
		Logger:      indexnow.NopLogger{},
	}
}

func urls(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://example.com/posts/%d", i)
	}
	return out
}

// BenchmarkSubmit_HTTP benchmarks a full submission round trip
func BenchmarkSubmit_HTTP(b *testing.B) {
	for _, n := range []int{1, 100, 10000} {
		b.Run(fmt.Sprintf("urls=%d", n), func(b *testing.B) {
			server := newAcceptingServer(b)
			client, err := indexnow.New(newConfig(), indexnow.WithEndpoint(server.URL))
			if err != nil {
				b.Fatal(err)
			}

			list := urls(n)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if r := client.Submit(ctx, list...); !r.Accepted() {
					b.Fatalf("unexpected outcome %s", r.Outcome)
				}
			}
		})
	}
}

// BenchmarkSubmit_NotAttempted benchmarks the paths that never reach the network
func BenchmarkSubmit_NotAttempted(b *testing.B) {
	cfg := newConfig()
	cfg.Disabled = true

	client, err := indexnow.New(cfg)
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	list := urls(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = client.Submit(ctx, list...)
	}
}

// BenchmarkEncodeRequest benchmarks payload encoding
func BenchmarkEncodeRequest(b *testing.B) {
	req := indexapi.SubmitRequest{
		Host:    "example.com",
		Key:     "bench-key",
		URLList: urls(1000),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := indexapi.EncodeRequest(req); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFilter_Allow benchmarks expression evaluation per URL
func BenchmarkFilter_Allow(b *testing.B) {
	f, err := filter.New(`scheme == "https" && host == "example.com" && !(path startsWith "/admin")`)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Allow("https://example.com/posts/42?ref=feed")
	}
}

// BenchmarkStorage_Seen benchmarks dedup lookups
func BenchmarkStorage_Seen(b *testing.B) {
	s, err := storage.NewMemoryStorage(storage.DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()
	list := urls(1000)
	if err := s.Mark(ctx, list, time.Hour); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Seen(ctx, list[i%len(list)])
	}
}

// BenchmarkVerificationHandler benchmarks serving the key file
func BenchmarkVerificationHandler(b *testing.B) {
	mux := http.NewServeMux()
	indexnow.MountVerification(mux, newConfig())

	req := httptest.NewRequest(http.MethodGet, "/bench-key.txt", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
	}
}
