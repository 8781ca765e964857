package domain

// RunRecord is one job-on-server execution interval. EndTime is -1 while the
// job is still running.
type RunRecord struct {
	JobID          int
	ServerID       int
	ServerCapacity int
	StartTime      int
	EndTime        int
	TrueDemand     int
}

// Open is true until the job finishes.
func (r RunRecord) Open() bool {
	return r.EndTime == unsetTime
}

// NewRunRecord opens a record for a job that just started on server.
func NewRunRecord(job *Job, server *Server, start int) RunRecord {
	return RunRecord{
		JobID:          job.ID(),
		ServerID:       server.ID(),
		ServerCapacity: server.Capacity(),
		StartTime:      start,
		EndTime:        unsetTime,
		TrueDemand:     job.TrueDemand(),
	}
}
