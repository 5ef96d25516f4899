package config

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// Static jobs live here; packages register dynamic jobs through
// cron.Register from init().
var CronJobs = map[string]CronJob{
	// Add more jobs here
}
