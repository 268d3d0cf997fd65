package main

import (
	"context"
	"database/sql"
	"net"
	"reflect"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/dot5enko/columnar-result-pager/pager"
	"github.com/dot5enko/columnar-result-pager/sqlexec"
	"github.com/dot5enko/columnar-result-pager/transport"
	"github.com/dot5enko/columnar-result-pager/vector"
)

func openSeeded(tb testing.TB) *sql.DB {
	tb.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		tb.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() { db.Close() })

	seedDatabase(db)
	return db
}

func TestFullPagingFlow(b *testing.T) {

	engine := pager.New(sqlexec.New(openSeeded(b)), pager.DefaultConfig())

	view, err := engine.Run(context.Background(), "SELECT id, service, latency_ms FROM health_checks")
	if err != nil {
		b.Fatalf("run: %v", err)
	}
	if len(view.Rows) != 100 {
		b.Errorf("Expected %d but got %d", 100, len(view.Rows))
	}

	view = waitForCache(engine)
	if view.State != pager.StateCacheComplete {
		b.Fatalf("cache ended in %s", view.State)
	}
	if view.TotalRows != demoRows || view.IsEstimated {
		b.Errorf("Expected %d but got %d (estimated=%v)", demoRows, view.TotalRows, view.IsEstimated)
	}

	sorted, err := engine.SortByColumn("latency_ms")
	if err != nil {
		b.Fatalf("sort: %v", err)
	}
	first := sorted.Rows[0][2].(float64)
	second := sorted.Rows[1][2].(float64)
	if first > second {
		b.Errorf("sorted page out of order: %v then %v", first, second)
	}

	last, err := engine.LoadPage(context.Background(), view.TotalPages-1)
	if err != nil {
		b.Fatalf("last page: %v", err)
	}
	if len(last.Rows) != demoRows%100 && len(last.Rows) != 100 {
		b.Errorf("last page rows = %d", len(last.Rows))
	}
}

func TestBridgedResultMatchesDirect(t *testing.T) {

	exec := sqlexec.New(openSeeded(t))
	query := "SELECT id, service FROM health_checks ORDER BY id LIMIT 25"

	direct, err := exec.ExecuteQuery(context.Background(), query)
	if err != nil {
		t.Fatalf("direct: %v", err)
	}

	clientSide, serverSide := net.Pipe()
	go transport.ServeConn(context.Background(), serverSide, exec)
	defer clientSide.Close()

	bridged, err := transport.NewBridge(clientSide).Execute(context.Background(), query)
	if err != nil {
		t.Fatalf("bridged: %v", err)
	}

	if !reflect.DeepEqual(bridged.Rows(), direct.Rows()) {
		t.Errorf("bridged rows differ from direct execution")
	}
}

func BenchmarkResultEncode(b *testing.B) {

	exec := sqlexec.New(openSeeded(b))
	result, err := exec.ExecuteQuery(context.Background(), "SELECT * FROM health_checks LIMIT 200")
	if err != nil {
		b.Fatalf("execute: %v", err)
	}

	var encoded []byte
	for i := 0; i < b.N; i++ {
		encoded = vector.EncodeResult(result)
	}

	b.Logf("encoded %d rows into %d bytes", result.TotalRows(), len(encoded))
}
