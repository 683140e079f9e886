package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"liyu1981.xyz/container-monitor-service/pkg/filter"
	iotGrpc "liyu1981.xyz/container-monitor-service/pkg/grpc"
	"liyu1981.xyz/container-monitor-service/pkg/iot"
	"liyu1981.xyz/container-monitor-service/pkg/models"
)

var (
	maxDevices   = flag.Int("devices", 1000, "number of containers to simulate")
	httpHostPort = flag.String("http", "127.0.0.1:1080", "HTTP server address")
	grpcHostPort = flag.String("grpc", "127.0.0.1:10801", "gRPC server address")
	rounds       = flag.Int("rounds", 3, "report rounds per device")
)

var grpcClient iotGrpc.ContainerServiceClient

var (
	rnd   = rand.New(rand.NewSource(time.Now().UnixNano()))
	rndMu sync.Mutex

	failures atomic.Int64
)

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndInt(n int) int {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Intn(n)
}

func fail(format string, args ...any) {
	failures.Add(1)
	fmt.Printf("\n"+format+"\n", args...)
}

func main() {
	flag.Parse()

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", *httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}
	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(*grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = iotGrpc.NewContainerServiceClient(conn)
	fmt.Printf("gRPC client ready\n")

	deviceIDs := make([]uint, *maxDevices)

	startTime := time.Now()
	var wg sync.WaitGroup
	for i := range *maxDevices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deviceIDs[i] = createDevice("bench-" + uuid.NewString()[:8])
			fmt.Printf("\rcreated device %v", i)
		}()
	}
	wg.Wait()
	report("\rcreated %v devices", *maxDevices, startTime)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for _, id := range deviceIDs {
		if id == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			doActions(id)
		}()
	}
	wg.Wait()
	report("\n\rdid actions for %v devices", *maxDevices*(*rounds)*3, startTime)
	fmt.Printf("failed calls: %v\n", failures.Load())
}

func report(label string, actions int, since time.Time) {
	used := time.Since(since)
	fmt.Printf(label+": used time=%v seconds, throughput=%v action/second\n",
		*maxDevices, used.Seconds(), float64(actions)/used.Seconds())
}

func createDevice(name string) uint {
	body, _ := json.Marshal(map[string]string{"name": name})
	resp, err := http.Post(fmt.Sprintf("http://%s/devices", *httpHostPort), "application/json", bytes.NewBuffer(body))
	if err != nil {
		fail("create device: %v", err)
		return 0
	}
	defer resp.Body.Close()

	var device models.Device
	if resp.StatusCode != http.StatusCreated || json.NewDecoder(resp.Body).Decode(&device) != nil {
		fail("create device: status %v", resp.StatusCode)
		return 0
	}
	return device.ID
}

func doActions(deviceID uint) {
	actions := map[string]func(uint){
		"Ingest":       ingest,
		"QueryReports": queryReports,
		"DeviceDwell":  deviceDwell,
	}
	for range *rounds {
		for name, action := range actions {
			action(deviceID)
			fmt.Printf("\rexecuted action %v for device %v", name, deviceID)
			time.Sleep(time.Duration(100+rndInt(1000)) * time.Millisecond)
		}
	}
}

func ingest(deviceID uint) {
	level := rndInt(101)
	door := flipCoin()

	if flipCoin() {
		body, _ := json.Marshal(map[string]any{"device_id": deviceID, "level": level, "door": door})
		resp, err := http.Post(fmt.Sprintf("http://%s/ingest", *httpHostPort), "application/json", bytes.NewBuffer(body))
		if err != nil {
			fail("error: %v", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fail("ingest status code != 200: %v", resp.StatusCode)
		}
		return
	}

	resp, err := grpcClient.Ingest(context.Background(), &iot.IngestRequest{DeviceID: &deviceID, Level: &level, Door: &door})
	if err != nil {
		fail("error: %v", err)
		return
	}
	if resp.Status != "ok" {
		fail("ingest failed: %v", resp.Message)
	}
}

func queryReports(deviceID uint) {
	device := strconv.FormatUint(uint64(deviceID), 10)

	if flipCoin() {
		resp, err := http.Get(fmt.Sprintf("http://%s/reports?device=%s", *httpHostPort, device))
		if err != nil {
			fail("error: %v", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fail("reports status code != 200: %v", resp.StatusCode)
		}
		return
	}

	_, err := grpcClient.QueryReports(context.Background(), &iotGrpc.QueryReportsRequest{
		Query: filter.RawQuery{Device: device},
	})
	if err != nil {
		fail("error: %v", err)
	}
}

func deviceDwell(_ uint) {
	if flipCoin() {
		resp, err := http.Get(fmt.Sprintf("http://%s/stats/dwell", *httpHostPort))
		if err != nil {
			fail("error: %v", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fail("dwell status code != 200: %v", resp.StatusCode)
		}
		return
	}

	if _, err := grpcClient.DeviceDwell(context.Background(), &iotGrpc.DeviceDwellRequest{}); err != nil {
		fail("error: %v", err)
	}
}
