package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/astrolive/core/internal/infrastructure/mqtt"
	"github.com/astrolive/core/internal/observatory"
)

// Command is one structured inbound command. Fields carries any
// verb-specific arguments (ra, dec, position, id) with their decoded
// JSON types.
type Command struct {
	Component string
	Verb      string
	Fields    map[string]any
}

// ParseCommand decodes an inbound bus message into a Command. A bare
// "on"/"off" payload on a switch set-topic is special-cased: the target
// component and port id are synthesized from the topic path. Everything
// else must be a JSON object with "component" and "command" fields.
func ParseCommand(topic string, payload []byte) (Command, error) {
	text := string(payload)
	if (text == stateOn || text == stateOff) && strings.Contains(topic, mqtt.TopicPrefix+"/switch/") {
		return synthesizeSwitchCommand(topic, text)
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrMalformedCommand, err)
	}
	component, _ := raw["component"].(string)
	if component == "" {
		return Command{}, fmt.Errorf("%w: missing component", ErrMalformedCommand)
	}
	verb, _ := raw["command"].(string)
	if verb == "" {
		return Command{}, fmt.Errorf("%w: missing command", ErrMalformedCommand)
	}
	delete(raw, "component")
	delete(raw, "command")
	return Command{Component: component, Verb: verb, Fields: raw}, nil
}

// synthesizeSwitchCommand builds a switch on/off command from a set-topic
// path: astrolive/switch/<sys_id_>/set_switch_<n>. The sys_id segment has
// its underscores restored to dots; the port id is the final underscore
// part of the last segment.
func synthesizeSwitchCommand(topic, verb string) (Command, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 4 {
		return Command{}, fmt.Errorf("%w: switch topic %q", ErrMalformedCommand, topic)
	}
	component := strings.ReplaceAll(parts[2], "_", ".")
	segments := strings.Split(parts[3], "_")
	id := segments[len(segments)-1]
	return Command{
		Component: component,
		Verb:      verb,
		Fields:    map[string]any{"id": id},
	}, nil
}

// handleInbound is the subscription callback for the shared command
// topic and every per-switch set topic. Errors flow back to the bus
// wrapper, which logs them; a bad command never takes the subscription
// down or affects unrelated commands.
func (b *Bridge) handleInbound(topic string, payload []byte) error {
	cmd, err := ParseCommand(topic, payload)
	if err != nil {
		return err
	}
	b.logDebug("command received", "component", cmd.Component, "command", cmd.Verb)
	return b.Route(b.ctx, cmd)
}

// Route resolves and executes one command. Each command gets its own
// deadline so a hung device cannot stall the router.
func (b *Bridge) Route(ctx context.Context, cmd Command) error {
	target, err := b.obs.ResolveAbsolute(cmd.Component)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnknownComponent, cmd.Component, err)
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	return b.execute(ctx, target, cmd)
}

// execute dispatches on the target's kind, then on the verb.
func (b *Bridge) execute(ctx context.Context, target observatory.Component, cmd Command) error {
	switch dev := target.(type) {
	case *observatory.Telescope:
		switch cmd.Verb {
		case "park":
			if err := dev.Park(ctx); err != nil {
				return err
			}
			b.logInfo("executed telescope park", "sys_id", cmd.Component)
		case "unpark":
			if err := dev.Unpark(ctx); err != nil {
				return err
			}
			b.logInfo("executed telescope unpark", "sys_id", cmd.Component)
		case "slew":
			ra, ok := cmd.Fields["ra"]
			if !ok {
				return fmt.Errorf("%w: missing ra", ErrMalformedCommand)
			}
			dec, ok := cmd.Fields["dec"]
			if !ok {
				return fmt.Errorf("%w: missing dec", ErrMalformedCommand)
			}
			if err := dev.SlewToCoordinates(ctx, ra, dec); err != nil {
				return err
			}
			b.logInfo("executed telescope slew", "sys_id", cmd.Component, "ra", ra, "dec", dec)
		default:
			return fmt.Errorf("%w: telescope %q", ErrUnknownVerb, cmd.Verb)
		}

	case *observatory.Focuser:
		switch cmd.Verb {
		case "move":
			position, err := intField(cmd.Fields, "position")
			if err != nil {
				return err
			}
			if err := dev.Move(ctx, position); err != nil {
				return err
			}
			b.logInfo("executed focuser move", "sys_id", cmd.Component, "position", position)
		default:
			return fmt.Errorf("%w: focuser %q", ErrUnknownVerb, cmd.Verb)
		}

	case *observatory.Switch:
		switch cmd.Verb {
		case stateOn, stateOff:
			id, err := intField(cmd.Fields, "id")
			if err != nil {
				return err
			}
			if err := dev.SetSwitch(ctx, id, cmd.Verb == stateOn); err != nil {
				return err
			}
			b.logInfo("executed switch set", "sys_id", cmd.Component, "id", id, "on", cmd.Verb == stateOn)
		default:
			return fmt.Errorf("%w: switch %q", ErrUnknownVerb, cmd.Verb)
		}

	case *observatory.FilterWheel:
		switch cmd.Verb {
		case "set_position":
			position, err := intField(cmd.Fields, "position")
			if err != nil {
				return err
			}
			if err := dev.SetPosition(ctx, position); err != nil {
				return err
			}
			b.logInfo("executed filterwheel set position", "sys_id", cmd.Component, "position", position)
		default:
			return fmt.Errorf("%w: filterwheel %q", ErrUnknownVerb, cmd.Verb)
		}

	default:
		return fmt.Errorf("%w: no commands for kind %s", ErrUnknownVerb, target.Kind())
	}
	return nil
}

// intField extracts an integer argument that may arrive as a JSON
// number, a numeric string, or a plain int.
func intField(fields map[string]any, key string) (int, error) {
	v, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedCommand, key)
	}
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case int:
		return t, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q", ErrMalformedCommand, key, t)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %s has type %T", ErrMalformedCommand, key, v)
}
