// Package diagram is a small declarative library for architecture diagrams.
//
// # Overview
//
// A [Diagram] collects labeled [Node] values, nested [Cluster] groupings and
// directed [Edge] connectors, then hands the finished graph to a [Renderer]
// which writes a single PNG image. Layout is left entirely to the renderer;
// this package only records what was declared.
//
// # Basic Usage
//
// [Draw] opens a diagram scope, runs the build function and renders the
// result when it returns:
//
//	path, err := diagram.Draw(ctx, nodelink.NewRenderer(), "Serverless API",
//	    func(d *diagram.Diagram) {
//	        users := d.Node(diagram.KindClient, "End Users")
//	        var api *diagram.Node
//	        d.Cluster("API Layer", func(c *diagram.Cluster) {
//	            api = c.Node(diagram.KindFunctionApp, "Azure Functions")
//	        })
//	        d.Connect(users, api, diagram.Label("HTTPS"))
//	    },
//	    diagram.WithDirection(diagram.LeftToRight),
//	)
//
// The image is written only when the build function returns normally. A
// panic inside the scope propagates and leaves no output file behind.
//
// # Declaration Errors
//
// Declaring methods never return errors. Problems such as an edge whose
// endpoint belongs to another diagram, an unknown [Kind] or an invalid
// filename are recorded on the diagram and reported together by
// [Diagram.Err] and [Diagram.Save] before anything is rendered.
//
// # Identity
//
// Nodes are identified by their Go pointer. Each node also carries a
// deterministic identifier derived from the diagram name and declaration
// order, which renderers use as the node name in their output so repeated
// runs produce identical files.
//
// # Concurrency
//
// Diagram values are not safe for concurrent use.
package diagram
