// Package sim provides the primitives shared by all the simulator packages:
// simulated time, hooks, id generation, and random sources.
package sim

// Cycle is the unit of simulated time. The whole core advances one Cycle at a
// time.
type Cycle int

// NoCycle marks a time field that has not been set.
const NoCycle Cycle = -1
