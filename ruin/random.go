package ruin

// Random removes a uniform sample of NumJobsToRemove currently-assigned
// jobs with the Fisher-Yates idiom: shuffle the job set, then take a
// prefix instead of rejection-sampling.
type Random struct{}

// Apply implements Operator.
func (Random) Apply(ws workingSolution, ctx Context) error {
	jobs := assignedJobs(ws)
	ctx.RNG.Shuffle(len(jobs), func(i, j int) { jobs[i], jobs[j] = jobs[j], jobs[i] })

	n := ctx.NumJobsToRemove
	if n > len(jobs) {
		n = len(jobs)
	}
	for _, job := range jobs[:n] {
		route, ok := ws.RouteOf(job)
		if !ok {
			continue
		}
		if err := removeJob(ctx.Problem, ws, ws.Route(route), job); err != nil {
			return err
		}
	}

	return nil
}
