package config

// RunConfigs the map of built-in configurations
var RunConfigs = map[string]RunConfig{
	"default":   defaultConfig,
	"small":     smallConfig,
	"contended": contendedConfig,
	"strategic": strategicConfig,
}

// defaultConfig the values used when a setting is absent or invalid
var defaultConfig = RunConfig{
	Generator: GeneratorConfig{
		NumJobs:        100,
		NumServers:     5,
		ServerCapMin:   10,
		ServerCapMax:   20,
		DemandMin:      1,
		DemandMax:      10,
		DurationMin:    1,
		DurationMax:    5,
		MaxArrivalTime: 20,
		MisreportProb:  0,
		MisreportAlpha: 0,
		Seed:           42,
	},
	TimeLimit: 150,
	BatchSize: 4,
	NumSeeds:  1,
}

// smallConfig a quick run, handy when eyeballing schedule dumps
var smallConfig = RunConfig{
	Generator: GeneratorConfig{
		NumJobs:        12,
		NumServers:     2,
		ServerCapMin:   8,
		ServerCapMax:   12,
		DemandMin:      1,
		DemandMax:      6,
		DurationMin:    1,
		DurationMax:    4,
		MaxArrivalTime: 6,
		Seed:           42,
	},
	TimeLimit: 30,
	BatchSize: 2,
	NumSeeds:  1,
}

// contendedConfig many large jobs competing for few servers
var contendedConfig = RunConfig{
	Generator: GeneratorConfig{
		NumJobs:        300,
		NumServers:     4,
		ServerCapMin:   10,
		ServerCapMax:   16,
		DemandMin:      3,
		DemandMax:      12,
		DurationMin:    2,
		DurationMax:    8,
		MaxArrivalTime: 40,
		Seed:           42,
	},
	TimeLimit: 300,
	BatchSize: 4,
	NumSeeds:  5,
}

// strategicConfig half of the jobs misreport by up to 50%
var strategicConfig = RunConfig{
	Generator: GeneratorConfig{
		NumJobs:        100,
		NumServers:     5,
		ServerCapMin:   10,
		ServerCapMax:   20,
		DemandMin:      1,
		DemandMax:      10,
		DurationMin:    1,
		DurationMax:    5,
		MaxArrivalTime: 20,
		MisreportProb:  0.5,
		MisreportAlpha: 0.5,
		Seed:           42,
	},
	TimeLimit: 150,
	BatchSize: 4,
	NumSeeds:  10,
}
