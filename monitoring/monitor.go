// Package monitoring turns a running simulation into a web server that reports
// its progress and lets the user pause it between samples.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/nocsim/monitoring/web"
	"github.com/sarchlab/nocsim/noc/buffering"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/trafficmanager"
)

// Monitor receives the snapshots of a traffic manager and serves them over
// HTTP. The simulation and the server run on different goroutines; everything
// the server reads is copied under a lock when a snapshot arrives.
type Monitor struct {
	portNumber      int
	openBrowser     bool
	samplesPerTrial uint64

	buffers    []*buffering.Buffer
	components map[string]interface{}

	lock        sync.Mutex
	snapshot    trafficmanager.Snapshot
	hasSnapshot bool
	vcLevels    []vcLevel

	pauseLock sync.Mutex
	pauseCond *sync.Cond
	paused    bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
	currentBar       *ProgressBar
}

type vcLevel struct {
	Buffer string `json:"buffer"`
	Level  int    `json:"level"`
	Cap    int    `json:"cap"`
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	m := &Monitor{
		components: make(map[string]interface{}),
	}
	m.pauseCond = sync.NewCond(&m.pauseLock)

	return m
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes the monitor open the web page once the server starts.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// WithSamplesPerTrial sets the length of the progress bar of each trial.
func (m *Monitor) WithSamplesPerTrial(n int) *Monitor {
	m.samplesPerTrial = uint64(n)
	return m
}

// RegisterBuffers adds buffers whose virtual channels are reported by the hang
// detector.
func (m *Monitor) RegisterBuffers(bufs ...*buffering.Buffer) {
	m.buffers = append(m.buffers, bufs...)
}

// RegisterComponent registers an object that can be inspected by name. The
// object must not change while the simulation runs.
func (m *Monitor) RegisterComponent(name string, c interface{}) {
	m.components[name] = c
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.RunID(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Func receives the snapshots of the traffic manager. It blocks while the
// monitor is paused.
func (m *Monitor) Func(ctx sim.HookCtx) {
	s, ok := ctx.Item.(trafficmanager.Snapshot)
	if !ok {
		return
	}

	levels := m.captureVCLevels()

	m.lock.Lock()
	m.snapshot = s
	m.hasSnapshot = true
	m.vcLevels = levels
	m.lock.Unlock()

	switch ctx.Pos {
	case trafficmanager.HookPosSampleEnd:
		m.advanceProgress(s)
	case trafficmanager.HookPosTrialEnd:
		m.completeTrial()
	}

	m.waitWhilePaused()
}

func (m *Monitor) captureVCLevels() []vcLevel {
	var levels []vcLevel

	for _, b := range m.buffers {
		for _, vc := range b.VCs() {
			levels = append(levels, vcLevel{
				Buffer: vc.Name(),
				Level:  vc.Size(),
				Cap:    vc.Capacity(),
			})
		}
	}

	return levels
}

func (m *Monitor) advanceProgress(s trafficmanager.Snapshot) {
	if m.currentBar == nil {
		m.currentBar = m.CreateProgressBar(
			fmt.Sprintf("%s trial %d", s.Name, s.Trial), m.samplesPerTrial)
	}

	m.currentBar.IncrementFinished(1)
}

func (m *Monitor) completeTrial() {
	if m.currentBar == nil {
		return
	}

	m.CompleteProgressBar(m.currentBar)
	m.currentBar = nil
}

// Pause makes the simulation wait at the next snapshot.
func (m *Monitor) Pause() {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	m.paused = true
}

// Continue releases a paused simulation.
func (m *Monitor) Continue() {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	m.paused = false
	m.pauseCond.Broadcast()
}

// Paused tells if the monitor holds the simulation.
func (m *Monitor) Paused() bool {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	return m.paused
}

func (m *Monitor) waitWhilePaused() {
	m.pauseLock.Lock()
	defer m.pauseLock.Unlock()

	for m.paused {
		m.pauseCond.Wait()
	}
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	fs := web.GetAssets()
	fServer := http.FileServer(fs)
	r.HandleFunc("/api/pause", m.pauseSimulation)
	r.HandleFunc("/api/continue", m.continueSimulation)
	r.HandleFunc("/api/status", m.status)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/hangdetector/buffers", m.hangDetectorBuffers)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(fServer)

	return r
}

// StartServer starts the monitor as a web server and returns the port it
// listens on.
func (m *Monitor) StartServer() int {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://localhost:%d", port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	r := m.router()
	go func() {
		err := http.Serve(listener, r)
		dieOnErr(err)
	}()

	if m.openBrowser {
		err = browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
		}
	}

	return port
}

func (m *Monitor) pauseSimulation(w http.ResponseWriter, _ *http.Request) {
	m.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueSimulation(w http.ResponseWriter, _ *http.Request) {
	m.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

type statusRsp struct {
	Started  bool                    `json:"started"`
	Paused   bool                    `json:"paused"`
	Snapshot trafficmanager.Snapshot `json:"snapshot"`
}

func (m *Monitor) status(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	rsp := statusRsp{
		Started:  m.hasSnapshot,
		Snapshot: m.snapshot,
	}
	m.lock.Unlock()

	rsp.Paused = m.Paused()

	writeJSON(w, rsp)
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for name := range m.components {
		names = append(names, name)
	}

	sort.Strings(names)

	writeJSON(w, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) interface{} {
	component, found := m.components[name]
	if !found {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Component not found"))
		dieOnErr(err)

		return nil
	}

	return component
}

func (m *Monitor) hangDetectorBuffers(w http.ResponseWriter, r *http.Request) {
	sortMethod, limit, offset, err := m.buffersParseParams(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	m.lock.Lock()
	levels := make([]vcLevel, len(m.vcLevels))
	copy(levels, m.vcLevels)
	m.lock.Unlock()

	selected := sortAndSelectVCs(levels, sortMethod, limit, offset)

	writeJSON(w, selected)
}

func (*Monitor) buffersParseParams(
	r *http.Request,
) (sortMethod string, limit, offset int, err error) {
	query := r.URL.Query()

	sortMethod = query.Get("sort")
	if sortMethod == "" {
		sortMethod = "percent"
	}

	if sortMethod != "level" && sortMethod != "percent" {
		return "", 0, 0, fmt.Errorf(
			"invalid sort method: %s. Allowed values are `level` and `percent`",
			sortMethod)
	}

	if limit, err = nonNegativeParam(query.Get("limit")); err != nil {
		return "", 0, 0, fmt.Errorf("limit: %w", err)
	}

	if offset, err = nonNegativeParam(query.Get("offset")); err != nil {
		return "", 0, 0, fmt.Errorf("offset: %w", err)
	}

	return sortMethod, limit, offset, nil
}

func nonNegativeParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, errors.New("cannot be negative")
	}

	return n, nil
}

func vcPercent(l vcLevel) float64 {
	if l.Cap == 0 {
		return 0
	}

	return float64(l.Level) / float64(l.Cap)
}

// sortAndSelectVCs orders the virtual channels from the fullest and returns
// the page selected by offset and limit. A zero limit selects everything after
// offset.
func sortAndSelectVCs(
	levels []vcLevel,
	sortMethod string,
	limit, offset int,
) []vcLevel {
	byLevel := func(i, j int) bool {
		if levels[i].Level != levels[j].Level {
			return levels[i].Level > levels[j].Level
		}

		return vcPercent(levels[i]) > vcPercent(levels[j])
	}

	byPercent := func(i, j int) bool {
		pi, pj := vcPercent(levels[i]), vcPercent(levels[j])
		if pi != pj {
			return pi > pj
		}

		return levels[i].Level > levels[j].Level
	}

	switch sortMethod {
	case "level":
		sort.SliceStable(levels, byLevel)
	case "percent":
		sort.SliceStable(levels, byPercent)
	default:
		panic("Invalid sort method " + sortMethod)
	}

	if offset > len(levels) {
		offset = len(levels)
	}

	end := len(levels)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return levels[offset:end]
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressBarRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	writeJSON(w, rsp)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
