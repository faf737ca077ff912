package designs

import "github.com/matzehuels/archdiagram/pkg/diagram"

// SimpleWebAPI is the design-phase diagram of the serverless web API: Static
// Web Apps in front of an Azure Functions API backed by Cosmos DB, with
// Application Insights monitoring, in a single resource group.
var SimpleWebAPI = Design{
	Key:         "simple-web-api",
	Title:       "Simple Web API - Serverless Architecture",
	Filename:    "03-des-diagram",
	Description: "Serverless web API: Static Web Apps, Azure Functions and Cosmos DB",
	Direction:   diagram.LeftToRight,
	GraphAttrs: map[string]string{
		"fontsize": "14",
		"bgcolor":  "white",
		"pad":      "0.5",
		"splines":  "ortho",
	},
	Build: buildSimpleWebAPI,
}

func buildSimpleWebAPI(d *diagram.Diagram) {
	users := d.Node(diagram.KindClient, "End Users\n(10 concurrent)")

	var swa, fn, storage, cosmos, insights *diagram.Node
	d.Cluster("Resource Group: rg-simple-web-api-dev\n(swedencentral)", func(rg *diagram.Cluster) {
		rg.Cluster("Frontend", func(c *diagram.Cluster) {
			swa = c.Node(diagram.KindWebApp, "Static Web Apps\n(Free Tier)")
		})

		rg.Cluster("API Layer", func(c *diagram.Cluster) {
			fn = c.Node(diagram.KindFunctionApp, "Azure Functions\n(Consumption)")
			storage = c.Node(diagram.KindStorage, "Storage Account\n(Functions Host)")
		})

		rg.Cluster("Data Tier", func(c *diagram.Cluster) {
			cosmos = c.Node(diagram.KindDatabase, "Cosmos DB\n(Serverless)")
		})

		rg.Cluster("Monitoring", func(c *diagram.Cluster) {
			insights = c.Node(diagram.KindMonitoring, "Application\nInsights")
		})
	})

	// User flow
	d.Connect(users, swa, diagram.Label("HTTPS"), diagram.Color("darkgreen"))
	d.Connect(swa, fn, diagram.Label("API Calls"), diagram.Color("blue"))
	d.Connect(fn, cosmos, diagram.Label("Managed Identity"), diagram.Color("purple"))

	// Function host storage
	d.Connect(fn, storage, diagram.Style(diagram.Dashed), diagram.Color("gray"))

	// Telemetry
	d.Connect(swa, insights, diagram.Style(diagram.Dashed), diagram.Color("orange"))
	d.Connect(fn, insights, diagram.Style(diagram.Dashed), diagram.Color("orange"))
}
