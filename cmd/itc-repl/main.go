// itc-repl is an interactive shell for exploring interval tree
// clocks. It keeps a set of named stamps and exposes the library's
// operations as commands, printing the resulting trees after every
// step.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/phroun/itc"
)

// REPL holds the state of the interactive session.
type REPL struct {
	stamps map[string]*itc.Stamp
	reader *bufio.Reader
}

func main() {
	fmt.Println("ITC REPL - Interval Tree Clock Demo")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	repl := &REPL{
		stamps: make(map[string]*itc.Stamp),
		reader: bufio.NewReader(os.Stdin),
	}

	for {
		fmt.Print("itc> ")
		input, err := repl.reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !repl.handleCommand(input) {
			break
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Println("Goodbye!")
		return false

	case "seed":
		r.cmdSeed(args)

	case "fork":
		r.cmdFork(args)

	case "forkn":
		r.cmdForkN(args)

	case "event":
		r.cmdEvent(args)

	case "join":
		r.cmdJoin(args)

	case "peek":
		r.cmdPeek(args)

	case "send":
		r.cmdSend(args)

	case "recv", "receive":
		r.cmdReceive(args)

	case "sync":
		r.cmdSync(args)

	case "compare", "cmp":
		r.cmdCompare(args)

	case "show", "list":
		r.cmdShow(args)

	case "ser", "serialize":
		r.cmdSerialize(args)

	case "deser", "deserialize":
		r.cmdDeserialize(args)

	case "drop":
		r.cmdDrop(args)

	default:
		fmt.Printf("Unknown command: %s (try 'help')\n", cmd)
	}

	return true
}

func (r *REPL) printHelp() {
	fmt.Println(`Commands:
  seed NAME                create the seed stamp under NAME
  fork SRC A B             fork SRC into stamps A and B
  forkn SRC N PREFIX       fork SRC into N stamps PREFIX0..PREFIX<N-1>
  event NAME [DST]         record an event (in place, or into DST)
  join A B DST             join A and B into DST
  peek SRC DST             store an anonymous observation of SRC in DST
  send SRC MSG             advance SRC and store the message stamp in MSG
  recv DST MSG             merge MSG into DST and record the receipt
  sync A B                 synchronise A and B in place
  compare A B              place A and B in the causal order
  show [NAME]              print one stamp, or all stamps
  ser NAME                 print the serialised stamp as hex
  deser NAME HEX           load a stamp from hex bytes
  drop NAME                forget a stamp
  quit                     exit`)
}

func (r *REPL) get(name string) (*itc.Stamp, bool) {
	s, ok := r.stamps[name]
	if !ok {
		fmt.Printf("No stamp named %q\n", name)
	}
	return s, ok
}

func (r *REPL) cmdSeed(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: seed NAME")
		return
	}
	r.stamps[args[0]] = itc.Seed()
	fmt.Printf("%s = %s\n", args[0], r.stamps[args[0]])
}

func (r *REPL) cmdFork(args []string) {
	if len(args) != 3 {
		fmt.Println("Usage: fork SRC A B")
		return
	}
	src, ok := r.get(args[0])
	if !ok {
		return
	}
	a, b, err := src.Fork()
	if err != nil {
		fmt.Printf("Fork failed: %v\n", err)
		return
	}
	delete(r.stamps, args[0])
	r.stamps[args[1]] = a
	r.stamps[args[2]] = b
	fmt.Printf("%s = %s\n%s = %s\n", args[1], a, args[2], b)
}

func (r *REPL) cmdForkN(args []string) {
	if len(args) != 3 {
		fmt.Println("Usage: forkn SRC N PREFIX")
		return
	}
	src, ok := r.get(args[0])
	if !ok {
		return
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		fmt.Println("N must be a positive integer")
		return
	}
	forks, err := src.ForkN(n)
	if err != nil {
		fmt.Printf("ForkN failed: %v\n", err)
		return
	}
	delete(r.stamps, args[0])
	for i, f := range forks {
		name := fmt.Sprintf("%s%d", args[2], i)
		r.stamps[name] = f
		fmt.Printf("%s = %s\n", name, f)
	}
}

func (r *REPL) cmdEvent(args []string) {
	if len(args) != 1 && len(args) != 2 {
		fmt.Println("Usage: event NAME [DST]")
		return
	}
	src, ok := r.get(args[0])
	if !ok {
		return
	}
	next, err := src.Event()
	if err != nil {
		fmt.Printf("Event failed: %v\n", err)
		return
	}
	dst := args[0]
	if len(args) == 2 {
		dst = args[1]
	}
	r.stamps[dst] = next
	fmt.Printf("%s = %s\n", dst, next)
}

func (r *REPL) cmdJoin(args []string) {
	if len(args) != 3 {
		fmt.Println("Usage: join A B DST")
		return
	}
	a, ok := r.get(args[0])
	if !ok {
		return
	}
	b, ok := r.get(args[1])
	if !ok {
		return
	}
	joined, err := a.Join(b)
	if err != nil {
		fmt.Printf("Join failed: %v\n", err)
		return
	}
	delete(r.stamps, args[0])
	delete(r.stamps, args[1])
	r.stamps[args[2]] = joined
	fmt.Printf("%s = %s\n", args[2], joined)
}

func (r *REPL) cmdPeek(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: peek SRC DST")
		return
	}
	src, ok := r.get(args[0])
	if !ok {
		return
	}
	p, err := src.Peek()
	if err != nil {
		fmt.Printf("Peek failed: %v\n", err)
		return
	}
	r.stamps[args[1]] = p
	fmt.Printf("%s = %s\n", args[1], p)
}

func (r *REPL) cmdSend(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: send SRC MSG")
		return
	}
	src, ok := r.get(args[0])
	if !ok {
		return
	}
	next, msg, err := src.Send()
	if err != nil {
		fmt.Printf("Send failed: %v\n", err)
		return
	}
	r.stamps[args[0]] = next
	r.stamps[args[1]] = msg
	fmt.Printf("%s = %s\n%s = %s\n", args[0], next, args[1], msg)
}

func (r *REPL) cmdReceive(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: recv DST MSG")
		return
	}
	dst, ok := r.get(args[0])
	if !ok {
		return
	}
	msg, ok := r.get(args[1])
	if !ok {
		return
	}
	next, err := dst.Receive(msg)
	if err != nil {
		fmt.Printf("Receive failed: %v\n", err)
		return
	}
	r.stamps[args[0]] = next
	fmt.Printf("%s = %s\n", args[0], next)
}

func (r *REPL) cmdSync(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: sync A B")
		return
	}
	a, ok := r.get(args[0])
	if !ok {
		return
	}
	b, ok := r.get(args[1])
	if !ok {
		return
	}
	sa, sb, err := itc.Sync(a, b)
	if err != nil {
		fmt.Printf("Sync failed: %v\n", err)
		return
	}
	r.stamps[args[0]] = sa
	r.stamps[args[1]] = sb
	fmt.Printf("%s = %s\n%s = %s\n", args[0], sa, args[1], sb)
}

func (r *REPL) cmdCompare(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: compare A B")
		return
	}
	a, ok := r.get(args[0])
	if !ok {
		return
	}
	b, ok := r.get(args[1])
	if !ok {
		return
	}
	ord, err := a.Compare(b)
	if err != nil {
		fmt.Printf("Compare failed: %v\n", err)
		return
	}
	fmt.Printf("%s %s %s\n", args[0], ord, args[1])
}

func (r *REPL) cmdShow(args []string) {
	if len(args) == 1 {
		if s, ok := r.get(args[0]); ok {
			fmt.Printf("%s = %s\n", args[0], s)
		}
		return
	}
	names := make([]string, 0, len(r.stamps))
	for name := range r.stamps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s = %s\n", name, r.stamps[name])
	}
}

func (r *REPL) cmdSerialize(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: ser NAME")
		return
	}
	s, ok := r.get(args[0])
	if !ok {
		return
	}
	buf, err := s.MarshalBinary()
	if err != nil {
		fmt.Printf("Serialize failed: %v\n", err)
		return
	}
	fmt.Printf("%s (%d bytes)\n", hex.EncodeToString(buf), len(buf))
}

func (r *REPL) cmdDeserialize(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: deser NAME HEX")
		return
	}
	buf, err := hex.DecodeString(args[1])
	if err != nil {
		fmt.Printf("Bad hex: %v\n", err)
		return
	}
	s, err := itc.ParseStamp(buf)
	if err != nil {
		fmt.Printf("Deserialize failed: %v\n", err)
		return
	}
	r.stamps[args[0]] = s
	fmt.Printf("%s = %s\n", args[0], s)
}

func (r *REPL) cmdDrop(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: drop NAME")
		return
	}
	if _, ok := r.get(args[0]); ok {
		delete(r.stamps, args[0])
	}
}
