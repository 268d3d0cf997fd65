package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"net"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	_ "modernc.org/sqlite"

	"github.com/dot5enko/columnar-result-pager/pager"
	"github.com/dot5enko/columnar-result-pager/sqlexec"
	"github.com/dot5enko/columnar-result-pager/transport"
	"github.com/dot5enko/columnar-result-pager/vector"
)

const demoRows = 1250

func seedDatabase(db *sql.DB) {

	_, createErr := db.Exec(`CREATE TABLE health_checks (
		id INTEGER PRIMARY KEY,
		service TEXT,
		latency_ms REAL,
		checked_at INTEGER
	)`)
	if createErr != nil {
		panic(createErr)
	}

	services := []string{"gateway", "billing", "search", "ingest"}

	for i := 0; i < demoRows; i++ {
		_, insErr := db.Exec(`INSERT INTO health_checks (service, latency_ms, checked_at) VALUES (?, ?, ?)`,
			services[i%len(services)],
			float64(rand.Int63n(50000))/100.0,
			time.Now().Unix()-int64(i),
		)
		if insErr != nil {
			panic(insErr)
		}
	}

	log.Printf("seeded %d rows ", demoRows)
}

func waitForCache(engine *pager.Engine) pager.View {

	for {
		view := engine.Snapshot()
		if !view.IsCaching {
			return view
		}
		log.Printf(" caching... %d rows so far", view.TotalRows)
		time.Sleep(5 * time.Millisecond)
	}
}

func printPage(view pager.View, limit int) {
	for i, row := range view.Rows {
		if i >= limit {
			break
		}
		fmt.Printf("  %v\n", row)
	}
}

func wireRoundTrip(exec *sqlexec.Executor, sqlText string) {

	result, err := exec.ExecuteQuery(context.Background(), sqlText)
	if err != nil {
		panic(err)
	}

	encoded := vector.EncodeResult(result)
	log.Printf("encoded %d rows into %d bytes", result.TotalRows(), len(encoded))
	spew.Dump(encoded[:32])

	back, decErr := vector.DecodeResult(encoded)
	if decErr != nil {
		panic(decErr)
	}
	log.Printf("decoded back %d rows over %d chunks", back.TotalRows(), len(back.Chunks))
}

func bridgedQuery(exec *sqlexec.Executor, sqlText string) {

	clientSide, serverSide := net.Pipe()
	go transport.ServeConn(context.Background(), serverSide, exec)

	before := time.Now()
	result, err := transport.NewBridge(clientSide).Execute(context.Background(), sqlText)
	if err != nil {
		panic(err)
	}
	clientSide.Close()

	color.Yellow("bridge streamed %d rows in %d chunks, %s", result.TotalRows(), len(result.Chunks), time.Since(before))
}

func main() {

	db, openErr := sql.Open("sqlite", ":memory:")
	if openErr != nil {
		panic(openErr)
	}
	db.SetMaxOpenConns(1)

	seedDatabase(db)

	exec := sqlexec.New(db)
	engine := pager.New(exec, pager.DefaultConfig())

	baseQuery := "SELECT id, service, latency_ms FROM health_checks"

	view, runErr := engine.Run(context.Background(), baseQuery)
	if runErr != nil {
		panic(runErr)
	}

	color.Green("first page in %s: %d of ~%d rows (payload ~%s)",
		view.ExecutionTime, len(view.Rows), view.TotalRows, view.PayloadHuman)
	printPage(view, 5)

	view = waitForCache(engine)
	color.Green("cache state %s, %d rows over %d pages", view.State, view.TotalRows, view.TotalPages)

	sorted, sortErr := engine.SortByColumn("latency_ms")
	if sortErr != nil {
		panic(sortErr)
	}
	log.Printf("fastest checks after sorting by %q:", sorted.SortColumn)
	printPage(sorted, 5)

	paged, pageErr := engine.LoadPage(context.Background(), 3)
	if pageErr != nil {
		panic(pageErr)
	}
	log.Printf("page %d of %d:", paged.CurrentPage+1, paged.TotalPages)
	printPage(paged, 3)

	wireRoundTrip(exec, baseQuery+" LIMIT 40")
	bridgedQuery(exec, baseQuery)

	counts := engine.Counts().Stats()
	log.Printf("count cache: %d entries, %d hits, %d misses", counts.Entries, counts.Hits, counts.Misses)
}
