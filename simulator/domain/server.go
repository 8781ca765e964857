package domain

import (
	"fmt"
)

// Server is a capacity ledger plus the jobs currently occupying it.
// usedCapacity always equals the sum of TrueDemand over assigned jobs.
type Server struct {
	id           int
	capacity     int
	usedCapacity int
	assigned     []*Job
}

func NewServer(id, capacity int) *Server {
	return &Server{id: id, capacity: capacity}
}

func (s *Server) ID() int           { return s.id }
func (s *Server) Capacity() int     { return s.capacity }
func (s *Server) UsedCapacity() int { return s.usedCapacity }
func (s *Server) FreeCapacity() int { return s.capacity - s.usedCapacity }

// Assigned returns the jobs currently occupying the server.
func (s *Server) Assigned() []*Job {
	out := make([]*Job, len(s.assigned))
	copy(out, s.assigned)
	return out
}

// CanAccept checks the job's true demand against free capacity.
func (s *Server) CanAccept(job *Job) bool {
	return job != nil && job.TrueDemand() > 0 && job.TrueDemand() <= s.FreeCapacity()
}

// Accept commits the job's true demand to the ledger. It does not change the
// job's state; callers mark the job Running on success.
func (s *Server) Accept(job *Job) bool {
	if !s.CanAccept(job) {
		return false
	}
	s.assigned = append(s.assigned, job)
	s.usedCapacity += job.TrueDemand()
	return true
}

// ReleaseFinished marks every assigned job whose duration has elapsed at now
// as Finished, frees its true demand, and returns the released jobs in
// assignment order.
func (s *Server) ReleaseFinished(now int) []*Job {
	var released []*Job
	stillRunning := s.assigned[:0]
	for _, job := range s.assigned {
		if job.Elapsed(now) && job.MarkFinished(now) {
			s.usedCapacity -= job.TrueDemand()
			released = append(released, job)
			continue
		}
		stillRunning = append(stillRunning, job)
	}
	for i := len(stillRunning); i < len(s.assigned); i++ {
		s.assigned[i] = nil
	}
	s.assigned = stillRunning
	return released
}

// Validate reports a ledger that disagrees with its assigned jobs or leaves
// the [0, capacity] range.
func (s *Server) Validate() error {
	sum := 0
	for _, job := range s.assigned {
		if !job.IsRunning() {
			return fmt.Errorf("server %d holds job %d in state %s", s.id, job.ID(), job.State())
		}
		sum += job.TrueDemand()
	}
	if sum != s.usedCapacity {
		return fmt.Errorf("server %d used capacity %d != sum of running true demand %d", s.id, s.usedCapacity, sum)
	}
	if s.usedCapacity < 0 || s.usedCapacity > s.capacity {
		return fmt.Errorf("server %d used capacity %d outside [0, %d]", s.id, s.usedCapacity, s.capacity)
	}
	return nil
}

func (s *Server) String() string {
	ids := make([]int, len(s.assigned))
	for i, j := range s.assigned {
		ids[i] = j.ID()
	}
	return fmt.Sprintf("{server:%d, capacity:%d, used:%d, jobs:%v}", s.id, s.capacity, s.usedCapacity, ids)
}
