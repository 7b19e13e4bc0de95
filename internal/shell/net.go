package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/roach88/neurograph/internal/graph"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/property"
	"github.com/roach88/neurograph/internal/rng"
	"github.com/roach88/neurograph/internal/schema"
)

// NetTool is the interactive network editor.
type NetTool struct {
	*Shell
	net *network.Network
	rng *rng.Source
}

// NewNetTool creates a network editor holding an empty network with an
// empty property pack.
func NewNetTool(in io.Reader, out io.Writer, opts ...Option) *NetTool {
	o := resolve(opts)
	t := &NetTool{
		Shell: newShell(in, out, "This is the network tool.", o),
		net:   network.New(property.NewPack()),
	}
	if o.seed != nil {
		t.rng = rng.New(*o.seed)
	} else {
		t.rng = rng.New(0)
		t.rng.SeedFromTime()
	}

	t.add("Create/Clear Network Commands",
		Command{Names: []string{"FJ"}, Args: "[file]", Help: "Read a network.", Run: t.fromJSON},
		Command{Names: []string{"TJ"}, Args: "[file]", Help: "Write the network as JSON.", Run: t.toJSON},
		Command{Names: []string{"COPY_FROM"}, Help: "Print a copy of the network.", Run: t.copyFrom},
		Command{Names: []string{"DESTROY"}, Help: "Replace the network with an empty one.", Run: t.destroy},
		Command{Names: []string{"CLEAR"}, Help: "Clear the network.", Run: t.clear(false)},
		Command{Names: []string{"CLEAR_KP"}, Help: "Clear the network but keep the property pack.", Run: t.clear(true)},
	)
	t.add("Network Info Commands",
		Command{Names: []string{"INFO"}, Help: "Print counts and the input, hidden, and output nodes.", Run: t.info},
		Command{Names: []string{"NODES"}, Args: "[node ...]", Help: "Print nodes as JSON, one per line.", Run: t.nodes},
		Command{Names: []string{"EDGES"}, Args: "[from to ...]", Help: "Print edges as JSON, one per line.", Run: t.edges},
		Command{Names: []string{"PROPERTIES", "P"}, Help: "Print the property pack.", Run: t.properties},
		Command{Names: []string{"ASSOC_DATA"}, Args: "[key]", Help: "Print the associated data, or one key.", Run: t.assocData},
		Command{Names: []string{"TYPE"}, Args: "node ...", Help: "Print each node's role.", Run: t.nodeType},
		Command{Names: []string{"NM"}, Args: "[name ...]", Help: "Print the node name map, or the given names.", Run: t.nameMap},
		Command{Names: []string{"SORT", "SORTED"}, Args: "[Q]", Help: "Sort the network and print the node order. Q prints nothing.", Run: t.sort},
		Command{Names: []string{"CYCLES"}, Help: "Print every cycle in the network.", Run: t.cycles},
	)
	t.add("Network Operation Commands",
		Command{Names: []string{"PRUNE"}, Help: "Remove nodes and edges not on an input to output path.", Run: t.prune},
		Command{Names: []string{"AN"}, Args: "node ...", Help: "Add nodes. A non-numeric token adds a named node at the lowest free id.", Run: t.addNodes},
		Command{Names: []string{"AI"}, Args: "node ...", Help: "Add inputs.", Run: t.addIO(true)},
		Command{Names: []string{"AO"}, Args: "node ...", Help: "Add outputs.", Run: t.addIO(false)},
		Command{Names: []string{"AE"}, Args: "from to ...", Help: "Add edges.", Run: t.addEdges},
		Command{Names: []string{"RN"}, Args: "node ... [T|F]", Help: "Remove nodes. T refuses to remove inputs and outputs (default F).", Run: t.removeNodes},
		Command{Names: []string{"RE"}, Args: "from to ...", Help: "Remove edges.", Run: t.removeEdges},
		Command{Names: []string{"RENAME"}, Args: "from to", Help: "Move a node to a new id.", Run: t.rename},
		Command{Names: []string{"SETNAME"}, Args: "node name", Help: "Set a node's name. A name of - clears it.", Run: t.setName},
		Command{Names: []string{"SETCOORDS"}, Args: "node [x] [y] ...", Help: "Set a node's display coordinates.", Run: t.setCoords},
		Command{Names: []string{"SET_CP"}, Args: "from to [x] [y] ...", Help: "Set an edge's display control points.", Run: t.setControlPoints},
		Command{Names: []string{"CLEAR_VIZ"}, Help: "Remove all coordinates and control points.", Run: t.clearViz},
		Command{Names: []string{"SNP"}, Args: "node ... name value", Help: "Set a node property.", Run: t.setNodeProperty},
		Command{Names: []string{"SEP"}, Args: "from to ... name value", Help: "Set an edge property.", Run: t.setEdgeProperty},
		Command{Names: []string{"SNP_ALL"}, Args: "name value", Help: "Set a node property on every node.", Run: t.setAllNodes},
		Command{Names: []string{"SEP_ALL"}, Args: "name value", Help: "Set an edge property on every edge.", Run: t.setAllEdges},
		Command{Names: []string{"SNETP"}, Args: "name value", Help: "Set a network property.", Run: t.setNetworkProperty},
		Command{Names: []string{"RNP"}, Args: "node ... [name]", Help: "Randomize node properties, or just the named one.", Run: t.randomizeNodes},
		Command{Names: []string{"REP"}, Args: "from to ... [name]", Help: "Randomize edge properties, or just the named one.", Run: t.randomizeEdges},
		Command{Names: []string{"SEED"}, Args: "val", Help: "Seed the random source.", Run: t.seed},
		Command{Names: []string{"SHOW_SEED"}, Help: "Print the random seed.", Run: t.showSeed},
		Command{Names: []string{"RE_SEED"}, Help: "Seed the random source from the clock and print the seed.", Run: t.reseed},
		Command{Names: []string{"SPROPERTIES", "SP"}, Args: "[file]", Help: "Set the property pack from JSON or a .cue file.", Run: t.setProperties},
		Command{Names: []string{"SET_ASSOC"}, Args: "key [file]", Help: "Set one associated data key to a JSON value.", Run: t.setAssoc},
	)
	return t
}

// Network returns the network being edited.
func (t *NetTool) Network() *network.Network { return t.net }

func (t *NetTool) label(id uint32) string {
	if name := t.net.Names().Name(id); name != "" {
		return fmt.Sprintf("%d(%s)", id, name)
	}
	return strconv.FormatUint(uint64(id), 10)
}

// report prints one line per failed target.
func (t *NetTool) report(r network.BatchReport) {
	for _, f := range r.Failures {
		t.printf("%s: %v\n", f.Target, f.Err)
	}
}

func (t *NetTool) fromJSON(_ context.Context, args []string) error {
	data, err := t.readJSON(args)
	if err != nil {
		return err
	}
	name := "<input>"
	if len(args) > 0 {
		name = args[0]
	}
	if err := schema.ValidateNetwork(name, data); err != nil {
		return err
	}
	net, err := network.Read(bytes.NewReader(data))
	if err != nil {
		return err
	}
	t.net = net
	return nil
}

func (t *NetTool) toJSON(_ context.Context, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	if len(args) == 0 {
		return t.net.Write(t.out, true)
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := t.net.Write(f, true); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (t *NetTool) copyFrom(_ context.Context, _ []string) error {
	clone := t.net.Clone()
	if !clone.Equal(t.net) {
		return fmt.Errorf("copy differs from the original")
	}
	return clone.Write(t.out, true)
}

func (t *NetTool) destroy(_ context.Context, _ []string) error {
	t.net = network.New(property.NewPack())
	return nil
}

func (t *NetTool) clear(keepPack bool) func(context.Context, []string) error {
	return func(_ context.Context, _ []string) error {
		t.net.Clear(keepPack)
		return nil
	}
}

func (t *NetTool) info(_ context.Context, _ []string) error {
	t.printf("Nodes:   %8d\n", t.net.NumNodes())
	t.printf("Edges:   %8d\n", t.net.NumEdges())
	t.printf("Inputs:  %8d\n", t.net.NumInputs())
	t.printf("Outputs: %8d\n", t.net.NumOutputs())
	t.printf("\n")

	var inputs, hidden, outputs []string
	for _, id := range t.net.Inputs() {
		if id >= 0 {
			inputs = append(inputs, t.label(uint32(id)))
		}
	}
	for _, nd := range t.net.Nodes() {
		if nd.IsHidden() {
			hidden = append(hidden, t.label(nd.ID))
		}
	}
	for _, id := range t.net.Outputs() {
		if id >= 0 {
			outputs = append(outputs, t.label(uint32(id)))
		}
	}
	t.printf("Input nodes:  %s\n", strings.Join(inputs, " "))
	t.printf("Hidden nodes: %s\n", strings.Join(hidden, " "))
	t.printf("Output nodes: %s\n", strings.Join(outputs, " "))
	return nil
}

type nodeView struct {
	ID       uint32             `json:"id"`
	Name     string             `json:"name,omitempty"`
	InputID  *int               `json:"input_id,omitempty"`
	OutputID *int               `json:"output_id,omitempty"`
	Values   map[string]float64 `json:"values"`
	Coords   []float64          `json:"coords,omitempty"`
}

type edgeView struct {
	From          uint32             `json:"from"`
	To            uint32             `json:"to"`
	Values        map[string]float64 `json:"values"`
	ControlPoints []float64          `json:"control_points,omitempty"`
}

// named maps property names to values by index.
func named(props []property.Property, values []float64) map[string]float64 {
	out := make(map[string]float64, len(props))
	for _, p := range props {
		if p.Index < len(values) {
			out[p.Name] = values[p.Index]
		}
	}
	return out
}

func (t *NetTool) printLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	t.printf("%s\n", data)
	return nil
}

func (t *NetTool) nodes(_ context.Context, args []string) error {
	ids := t.net.NodeIDs()
	if len(args) > 0 {
		ids = ids[:0]
		for _, tok := range args {
			id, err := t.net.Lookup(tok)
			if err != nil {
				t.printf("%v\n", err)
				continue
			}
			ids = append(ids, id)
		}
	}
	props := t.net.Pack().Properties(property.Node)
	for _, id := range ids {
		nd, err := t.net.Node(id)
		if err != nil {
			return err
		}
		v := nodeView{ID: nd.ID, Name: nd.Name, Values: named(props, nd.Values), Coords: nd.Coords}
		if nd.IsInput() {
			v.InputID = &nd.InputID
		}
		if nd.IsOutput() {
			v.OutputID = &nd.OutputID
		}
		if err := t.printLine(v); err != nil {
			return err
		}
	}
	return nil
}

func (t *NetTool) edges(_ context.Context, args []string) error {
	props := t.net.Pack().Properties(property.Edge)
	show := func(k network.EdgeKey) error {
		e, err := t.net.Edge(k.From, k.To)
		if err != nil {
			return err
		}
		return t.printLine(edgeView{From: e.From, To: e.To, Values: named(props, e.Values), ControlPoints: e.ControlPoints})
	}
	if len(args) > 0 {
		return t.applyPairs(args, show)
	}
	for _, k := range t.net.EdgeKeys() {
		if err := show(k); err != nil {
			return err
		}
	}
	return nil
}

// edgeTokens is one unresolved from/to pair of a batch edge command.
type edgeTokens struct {
	from, to string
}

func edgeTokensLabel(p edgeTokens) string {
	return fmt.Sprintf("edge %s -> %s", p.from, p.to)
}

// pairs splits args into from/to token pairs. Tokens are resolved per
// pair by applyPairs, so an unknown token fails only its own pair.
func pairs(args []string) ([]edgeTokens, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, errUsage
	}
	out := make([]edgeTokens, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		out = append(out, edgeTokens{from: args[i], to: args[i+1]})
	}
	return out, nil
}

func (t *NetTool) resolve(p edgeTokens) (network.EdgeKey, error) {
	from, err := t.net.Lookup(p.from)
	if err != nil {
		return network.EdgeKey{}, err
	}
	to, err := t.net.Lookup(p.to)
	if err != nil {
		return network.EdgeKey{}, err
	}
	return network.EdgeKey{From: from, To: to}, nil
}

// applyPairs runs op on every pair in args and reports the failures.
func (t *NetTool) applyPairs(args []string, op func(network.EdgeKey) error) error {
	ps, err := pairs(args)
	if err != nil {
		return err
	}
	t.report(network.Apply(ps, edgeTokensLabel, func(p edgeTokens) error {
		k, err := t.resolve(p)
		if err != nil {
			return err
		}
		return op(k)
	}))
	return nil
}

func (t *NetTool) properties(_ context.Context, _ []string) error {
	return t.writeJSON("", t.net.Pack().Doc())
}

func (t *NetTool) assocData(_ context.Context, args []string) error {
	switch len(args) {
	case 0:
		all := make(map[string]json.RawMessage)
		for _, k := range t.net.DataKeys() {
			v, err := t.net.Data(k)
			if err != nil {
				return err
			}
			all[k] = v
		}
		return t.writeJSON("", all)
	case 1:
		v, err := t.net.Data(args[0])
		if err != nil {
			return err
		}
		return t.writeJSON("", v)
	default:
		return errUsage
	}
}

func (t *NetTool) nodeType(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	for _, tok := range args {
		id, err := t.net.Lookup(tok)
		if err != nil {
			t.printf("%v\n", err)
			continue
		}
		nd, err := t.net.Node(id)
		if err != nil {
			return err
		}
		switch {
		case nd.IsInput() && nd.IsOutput():
			t.printf("%s is an input and output node\n", t.label(id))
		case nd.IsInput():
			t.printf("%s is an input node\n", t.label(id))
		case nd.IsOutput():
			t.printf("%s is an output node\n", t.label(id))
		default:
			t.printf("%s is a hidden node\n", t.label(id))
		}
	}
	return nil
}

func (t *NetTool) nameMap(_ context.Context, args []string) error {
	if len(args) == 0 {
		m := make(map[string]uint32)
		for _, n := range t.net.Names().Named() {
			m[n.Name] = n.ID
		}
		return t.printLine(m)
	}
	for _, name := range args {
		id, ok := t.net.Names().Resolve(name)
		if !ok || t.net.Names().Name(id) == "" {
			t.printf("no node is named %q\n", name)
			continue
		}
		t.printf("%q: %d\n", name, id)
	}
	return nil
}

func (t *NetTool) sort(_ context.Context, args []string) error {
	quiet := false
	switch {
	case len(args) == 1 && strings.EqualFold(args[0], "Q"):
		quiet = true
	case len(args) > 0:
		return errUsage
	}
	order := graph.Sort(t.net)
	if quiet {
		return nil
	}
	ids := make([]string, order.Len())
	for i, id := range order.IDs() {
		ids[i] = strconv.FormatUint(uint64(id), 10)
	}
	t.printf("%s\n", strings.Join(ids, " "))
	return nil
}

func (t *NetTool) cycles(_ context.Context, _ []string) error {
	for _, c := range graph.Cycles(t.net) {
		t.printf("%s\n", c.Message)
	}
	return nil
}

func (t *NetTool) prune(_ context.Context, _ []string) error {
	graph.Prune(t.net)
	return nil
}

func (t *NetTool) addNodes(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	t.report(network.Apply(args, tokenLabel, func(tok string) error {
		if id, err := strconv.ParseUint(tok, 10, 32); err == nil {
			return t.net.AddNode(uint32(id))
		}
		_, err := t.net.CreateUnnamedNode(tok)
		return err
	}))
	return nil
}

func (t *NetTool) addIO(input bool) func(context.Context, []string) error {
	return func(_ context.Context, args []string) error {
		if len(args) == 0 {
			return errUsage
		}
		t.report(network.Apply(args, tokenLabel, func(tok string) error {
			id, err := t.net.Lookup(tok)
			if err != nil {
				return err
			}
			if input {
				_, err = t.net.AddInput(id)
			} else {
				_, err = t.net.AddOutput(id)
			}
			return err
		}))
		return nil
	}
}

func (t *NetTool) addEdges(_ context.Context, args []string) error {
	return t.applyPairs(args, func(k network.EdgeKey) error {
		return t.net.AddEdge(k.From, k.To)
	})
}

func (t *NetTool) removeNodes(_ context.Context, args []string) error {
	errorIfIO := false
	if n := len(args); n > 0 {
		if flag, ok := parseFlag(args[n-1]); ok {
			errorIfIO = flag
			args = args[:n-1]
		}
	}
	if len(args) == 0 {
		return errUsage
	}
	t.report(network.Apply(args, tokenLabel, func(tok string) error {
		id, err := t.net.Lookup(tok)
		if err != nil {
			return err
		}
		return t.net.RemoveNode(id, errorIfIO)
	}))
	return nil
}

func (t *NetTool) removeEdges(_ context.Context, args []string) error {
	return t.applyPairs(args, func(k network.EdgeKey) error {
		return t.net.RemoveEdge(k.From, k.To)
	})
}

func (t *NetTool) rename(_ context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	from, err := t.net.Lookup(args[0])
	if err != nil {
		return err
	}
	to, err := parseID(args[1])
	if err != nil {
		return err
	}
	return t.net.RenameNode(from, to)
}

func (t *NetTool) setName(_ context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	id, err := t.net.Lookup(args[0])
	if err != nil {
		return err
	}
	return t.net.SetName(id, args[1])
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, tok := range args {
		v, err := parseFloat(tok)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (t *NetTool) setCoords(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	id, err := t.net.Lookup(args[0])
	if err != nil {
		return err
	}
	coords, err := parseFloats(args[1:])
	if err != nil {
		return err
	}
	return t.net.SetCoords(id, coords)
}

func (t *NetTool) setControlPoints(_ context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	k, err := t.resolve(edgeTokens{from: args[0], to: args[1]})
	if err != nil {
		return err
	}
	points, err := parseFloats(args[2:])
	if err != nil {
		return err
	}
	return t.net.SetControlPoints(k.From, k.To, points)
}

func (t *NetTool) clearViz(_ context.Context, _ []string) error {
	t.net.ClearViz()
	return nil
}

// nameValue splits the trailing "name value" off args.
func nameValue(args []string) ([]string, string, float64, error) {
	n := len(args)
	if n < 2 {
		return nil, "", 0, errUsage
	}
	v, err := parseFloat(args[n-1])
	if err != nil {
		return nil, "", 0, err
	}
	return args[:n-2], args[n-2], v, nil
}

func (t *NetTool) setNodeProperty(_ context.Context, args []string) error {
	targets, name, v, err := nameValue(args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errUsage
	}
	if !t.net.IsNodeProperty(name) {
		return fmt.Errorf("node property %q doesn't exist", name)
	}
	t.report(network.Apply(targets, tokenLabel, func(tok string) error {
		id, err := t.net.Lookup(tok)
		if err != nil {
			return err
		}
		return t.net.SetNodeProperty(id, name, v)
	}))
	return nil
}

func (t *NetTool) setEdgeProperty(_ context.Context, args []string) error {
	targets, name, v, err := nameValue(args)
	if err != nil {
		return err
	}
	if !t.net.IsEdgeProperty(name) {
		return fmt.Errorf("edge property %q doesn't exist", name)
	}
	return t.applyPairs(targets, func(k network.EdgeKey) error {
		return t.net.SetEdgeProperty(k.From, k.To, name, v)
	})
}

func (t *NetTool) setAllNodes(_ context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	_, name, v, err := nameValue(args)
	if err != nil {
		return err
	}
	if !t.net.IsNodeProperty(name) {
		return fmt.Errorf("node property %q doesn't exist", name)
	}
	t.report(network.Apply(t.net.NodeIDs(), network.NodeLabel, func(id uint32) error {
		return t.net.SetNodeProperty(id, name, v)
	}))
	return nil
}

func (t *NetTool) setAllEdges(_ context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	_, name, v, err := nameValue(args)
	if err != nil {
		return err
	}
	if !t.net.IsEdgeProperty(name) {
		return fmt.Errorf("edge property %q doesn't exist", name)
	}
	t.report(network.Apply(t.net.EdgeKeys(), network.EdgeLabel, func(k network.EdgeKey) error {
		return t.net.SetEdgeProperty(k.From, k.To, name, v)
	}))
	return nil
}

func (t *NetTool) setNetworkProperty(_ context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	_, name, v, err := nameValue(args)
	if err != nil {
		return err
	}
	return t.net.SetNetworkProperty(name, v)
}

func (t *NetTool) randomizeNodes(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	name := ""
	if last := args[len(args)-1]; t.net.IsNodeProperty(last) {
		name = last
		args = args[:len(args)-1]
	} else if _, err := t.net.Lookup(last); err != nil {
		return fmt.Errorf("there is neither a node nor a property named %q", last)
	}
	if len(args) == 0 {
		return errUsage
	}
	t.report(network.Apply(args, tokenLabel, func(tok string) error {
		id, err := t.net.Lookup(tok)
		if err != nil {
			return err
		}
		return t.net.RandomizeNode(t.rng, id, name)
	}))
	return nil
}

func (t *NetTool) randomizeEdges(_ context.Context, args []string) error {
	name := ""
	if len(args)%2 == 1 {
		name = args[len(args)-1]
		if !t.net.IsEdgeProperty(name) {
			return fmt.Errorf("edge property %q doesn't exist", name)
		}
		args = args[:len(args)-1]
	}
	return t.applyPairs(args, func(k network.EdgeKey) error {
		return t.net.RandomizeEdge(t.rng, k.From, k.To, name)
	})
}

func (t *NetTool) seed(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	v, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return usage("%s is not a valid seed", args[0])
	}
	t.rng.Seed(v)
	return nil
}

func (t *NetTool) showSeed(_ context.Context, _ []string) error {
	t.printf("%d\n", t.rng.Current())
	return nil
}

func (t *NetTool) reseed(_ context.Context, _ []string) error {
	t.printf("%d\n", t.rng.SeedFromTime())
	return nil
}

func (t *NetTool) setProperties(_ context.Context, args []string) error {
	var (
		pack *property.Pack
		err  error
	)
	if len(args) == 1 && strings.HasSuffix(args[0], ".cue") {
		src, rerr := os.ReadFile(args[0])
		if rerr != nil {
			return rerr
		}
		pack, err = schema.ParsePack(args[0], src)
	} else {
		pack, err = t.readPack(args)
	}
	if err != nil {
		return err
	}
	t.net.SetPack(pack)
	return nil
}

func (t *NetTool) readPack(args []string) (*property.Pack, error) {
	data, err := t.readJSON(args)
	if err != nil {
		return nil, err
	}
	name := "<input>"
	if len(args) > 0 {
		name = args[0]
	}
	if err := schema.ValidatePack(name, data); err != nil {
		return nil, err
	}
	var doc ir.PropertyPackDoc
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode property pack: %w", err)
	}
	return property.FromDoc(doc)
}

func (t *NetTool) setAssoc(_ context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage
	}
	data, err := t.readJSON(args[1:])
	if err != nil {
		return err
	}
	return t.net.SetData(args[0], data)
}

func tokenLabel(tok string) string { return tok }
