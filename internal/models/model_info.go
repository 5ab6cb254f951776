package models

var modelFeatures = []FeatureInfo{
	{Name: "AccountWeeks", Type: "int", Description: "How long the customer has been active with the company, in weeks."},
	{Name: "ContractRenewal", Type: "int (0/1)", Description: "Whether the customer recently renewed their plan."},
	{Name: "DataPlan", Type: "int (0/1)", Description: "Whether the customer has a data plan."},
	{Name: "DataUsage", Type: "float", Description: "Mobile data consumed, in GB."},
	{Name: "CustServCalls", Type: "int", Description: "Number of calls to customer service."},
	{Name: "DayMins", Type: "float", Description: "Daytime minutes used."},
	{Name: "DayCalls", Type: "int", Description: "Number of daytime calls."},
	{Name: "MonthlyCharge", Type: "float", Description: "Current monthly bill in dollars."},
	{Name: "OverageFee", Type: "float", Description: "Charges beyond the plan in dollars."},
	{Name: "RoamMins", Type: "float", Description: "Minutes spent roaming."},
	{Name: "AvgCallDuration", Type: "float", Description: "Engineered: average minutes per daytime call (DayMins / DayCalls)."},
	{Name: "CostPerUsage", Type: "float", Description: "Engineered: cost efficiency of the customer's usage."},
}

func ChurnModelInfo() ModelInfo {
	features := make([]FeatureInfo, len(modelFeatures))
	copy(features, modelFeatures)
	return ModelInfo{
		ModelType: "Random Forest classifier",
		Serving:   "Managed online endpoint",
		Interface: "REST API secured with a bearer key",
		Target:    "Churn: 1 = likely to leave, 0 = likely to stay",
		Features:  features,
	}
}
