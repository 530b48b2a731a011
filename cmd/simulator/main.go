// Command simulator posts randomized transactions to a running /analyze
// endpoint and prints the response envelopes. Useful for smoke-testing a
// deployment end to end.
//
// Usage:
//
//	API_URL=http://localhost:8000/analyze go run ./cmd/simulator
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/aiops/fraud-wizard/internal/domain/fraud"
)

const txCount = 10

var currencies = []string{"USD", "EUR", "TRY"}

var merchants = []string{
	"Acme Retail", "Globex Travel", "Initech Digital", "Umbrella Market", "Stark Electronics",
}

func main() {
	_ = godotenv.Load()

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8000/analyze"
	}

	client := &http.Client{Timeout: 30 * time.Second}

	for i := 0; i < txCount; i++ {
		tx := randomTransaction()
		body, _ := json.Marshal(tx)
		fmt.Printf("POST -> %s\n", body)

		resp, err := client.Post(apiURL, "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			continue
		}
		out, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		fmt.Printf("  => %d %s\n", resp.StatusCode, out)
	}

	fmt.Println("Done")
}

func randomTransaction() fraud.Transaction {
	// three amount bands: ordinary, borderline, clearly above threshold
	var amount float64
	switch rand.Intn(3) {
	case 0:
		amount = 1 + rand.Float64()*999
	case 1:
		amount = 1000 + rand.Float64()*5000
	default:
		amount = 10000 + rand.Float64()*10000
	}
	amount = float64(int(amount*100)) / 100

	ip := fmt.Sprintf("%d.%d.%d.%d", 1+rand.Intn(223), rand.Intn(256), rand.Intn(256), 1+rand.Intn(254))
	if rand.Intn(2) == 0 {
		ip = fmt.Sprintf("192.168.1.%d", 2+rand.Intn(199))
	}

	return fraud.Transaction{
		Amount:             &amount,
		Currency:           currencies[rand.Intn(len(currencies))],
		Merchant:           merchants[rand.Intn(len(merchants))],
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		IPAddress:          ip,
		CustomerID:         uuid.New().String(),
		PreviousTxCount24h: rand.Intn(30),
	}
}
