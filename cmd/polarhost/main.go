package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"

	"polarhost/config"
	"polarhost/gcode"
	"polarhost/homing"
	"polarhost/host/serial"
	"polarhost/kinematics"
	"polarhost/planner"
)

var (
	configPath = flag.String("config", "", "Path to machine configuration (JSON)")
	device     = flag.String("device", "", "Serial device to stream G-code from")
	baud       = flag.Int("baud", 250000, "Baud rate (ignored for USB CDC)")
	gcodePath  = flag.String("gcode", "", "G-code file to execute and exit")
)

func main() {
	flag.Parse()

	cfg := config.DefaultPolarXZConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read config: %v\n", err)
			os.Exit(1)
		}
		cfg, err = config.LoadConfig(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
			os.Exit(1)
		}
	}

	pl := planner.NewPlanner(cfg)
	kin, err := kinematics.NewPolarXZ(pl, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: kinematics setup failed: %v\n", err)
		os.Exit(1)
	}
	pl.SetKinematics(kin)
	interp := gcode.NewInterpreter(cfg, pl, kin)

	if *gcodePath != "" {
		f, err := os.Open(*gcodePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := streamGCode(interp, f, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *device != "" {
		fmt.Printf("Streaming G-code from %s...\n", *device)
		cfgSerial := serial.DefaultConfig(*device)
		cfgSerial.Baud = *baud
		port, err := serial.Open(cfgSerial)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()
		if err := streamGCode(interp, port, port); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	console(interp, kin, pl)
}

// streamGCode executes G-code lines from r, writing responses and "ok"
// acknowledgements to w. The first rejected move stops the stream: the job
// pauses rather than silently dropping moves.
func streamGCode(interp *gcode.Interpreter, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		resp, err := interp.Run(scanner.Text())
		if err != nil {
			return err
		}
		if resp != "" {
			fmt.Fprintln(w, resp)
		}
		fmt.Fprintln(w, "ok")
	}
	return scanner.Err()
}

// console runs the interactive host console. G-code lines go to the
// interpreter; everything else is a host command.
func console(interp *gcode.Interpreter, kin *kinematics.PolarXZ, pl *planner.Planner) {
	fmt.Println("polarhost - polar-XZ motion host")
	fmt.Println("Enter G-code or commands (type 'help' for commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line[0] {
		case 'G', 'M', 'T', 'g', 'm', 't':
			resp, err := interp.Run(line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			if resp != "" {
				fmt.Println(resp)
			}
			fmt.Println("ok")
			continue
		}

		tokens, err := shlex.Split(line)
		if err != nil || len(tokens) == 0 {
			fmt.Printf("Unknown command: %s\n", line)
			continue
		}

		switch tokens[0] {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		case "status":
			st := kin.Status(0)
			fmt.Printf("homed_axes: %q\n", st.HomedAxes)
			fmt.Printf("axis_minimum: %.3f %.3f %.3f\n", st.AxisMinimum.X, st.AxisMinimum.Y, st.AxisMinimum.Z)
			fmt.Printf("axis_maximum: %.3f %.3f %.3f\n", st.AxisMaximum.X, st.AxisMaximum.Y, st.AxisMaximum.Z)

		case "pos":
			p := pl.CommandedPosition()
			fmt.Printf("X:%.3f Y:%.3f Z:%.3f E:%.3f\n", p.X, p.Y, p.Z, p.E)

		case "home", "home2":
			axes, err := parseAxes(tokens[1:])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			recorder := homing.NewRecorder(axes)
			if tokens[0] == "home" {
				err = kin.Home(recorder)
			} else {
				err = kin.Home2(recorder)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			for i, hm := range recorder.Moves() {
				fmt.Printf("move %d: rail %s force %s home %s\n",
					i, hm.Rails[0].Name(), formatTarget(hm.ForcePos), formatTarget(hm.HomePos))
			}

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", tokens[0])
		}
	}
}

// parseAxes maps axis name tokens to homing axes; no tokens means all.
func parseAxes(tokens []string) ([]homing.Axis, error) {
	if len(tokens) == 0 {
		return []homing.Axis{homing.AxisX, homing.AxisY, homing.AxisZ}, nil
	}
	var axes []homing.Axis
	for _, tok := range tokens {
		switch strings.ToLower(tok) {
		case "x":
			axes = append(axes, homing.AxisX)
		case "y":
			axes = append(axes, homing.AxisY)
		case "z":
			axes = append(axes, homing.AxisZ)
		default:
			return nil, fmt.Errorf("unknown axis %q", tok)
		}
	}
	return axes, nil
}

func formatTarget(t homing.Target) string {
	parts := make([]string, len(t))
	for i, v := range t {
		if v == nil {
			parts[i] = "-"
		} else {
			parts[i] = fmt.Sprintf("%.3f", *v)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  help           - Show this help message")
	fmt.Println("  status         - Print homing state and travel bounds")
	fmt.Println("  pos            - Print the commanded position")
	fmt.Println("  home [axes]    - Print homing descriptors (coupled XY strategy)")
	fmt.Println("  home2 [axes]   - Print homing descriptors (independent strategy)")
	fmt.Println("  G/M...         - Execute a G-code command")
	fmt.Println("  quit/exit/q    - Exit the program")
	fmt.Println()
}
