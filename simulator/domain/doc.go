/*
Package domain holds the records a simulation run operates on.

Job:
  TrueDemand: capacity the job consumes while running. Immutable.
  ReportedDemand: capacity the owner claims. Admission decisions use it.
  Preferences: ordered server ids, walked by a forward-only cursor during deferred acceptance.
  Lifecycle: Waiting -> Running -> Finished, or Waiting -> Failed. Illegal transitions are refused.

Server:
  Capacity is fixed. UsedCapacity is the sum of TrueDemand over the running jobs it holds,
  so a job admitted on an optimistic reported demand still occupies its true demand.

Scenario:
  Owns the jobs and servers for one run. Four scenarios per seed (policy x reporting) never share records.
*/
package domain
