package engine

// basketType classifies a basket per spec §4.G: buildsFrom present
// means builder, else floor present means grower, else fixed.
type basketType string

const (
	BasketFixed   basketType = "fixed"
	BasketGrower  basketType = "grower"
	BasketBuilder basketType = "builder"
)

func (it *Interpreter) basketKind(name string) (basketType, error) {
	b, ok := it.tables.baskets[name]
	if !ok {
		return "", unknownSymbol("basket", name)
	}
	switch {
	case b.BuildsFrom != nil:
		return BasketBuilder, nil
	case b.Floor != nil:
		return BasketGrower, nil
	default:
		return BasketFixed, nil
	}
}

// basketCapacity computes the capacity of a basket per its type, spec
// §4.G.
func (it *Interpreter) basketCapacity(name string) (float64, error) {
	b, ok := it.tables.baskets[name]
	if !ok {
		return 0, unknownSymbol("basket", name)
	}
	kind, err := it.basketKind(name)
	if err != nil {
		return 0, err
	}

	plusTotal := 0.0
	for _, p := range b.Plus {
		v, err := it.Eval(p)
		if err != nil {
			return 0, err
		}
		plusTotal += v
	}

	switch kind {
	case BasketBuilder:
		starting := 0.0
		if b.Starting != nil {
			starting, err = it.Eval(b.Starting)
			if err != nil {
				return 0, err
			}
		}
		accumulated := it.state.basketAccumulation[name]
		capacity := starting + accumulated + plusTotal
		if b.Maximum != nil {
			max, err := it.Eval(b.Maximum)
			if err != nil {
				return 0, err
			}
			if capacity > max {
				capacity = max
			}
		}
		return capacity, nil
	case BasketGrower:
		base := 0.0
		if b.Capacity != nil {
			base, err = it.Eval(b.Capacity)
			if err != nil {
				return 0, err
			}
		}
		floor, err := it.Eval(b.Floor)
		if err != nil {
			return 0, err
		}
		capacity := base + plusTotal
		if floor > capacity {
			capacity = floor
		}
		return capacity, nil
	default: // BasketFixed
		base := 0.0
		if b.Capacity != nil {
			base, err = it.Eval(b.Capacity)
			if err != nil {
				return 0, err
			}
		}
		return base + plusTotal, nil
	}
}

// BasketStatus is the result of GetBasketStatus, spec §4.G.
type BasketStatus struct {
	Name          string
	BasketType    basketType
	Capacity      float64
	Used          float64
	Available     float64
	BaseCapacity  float64
	Floor         float64
	Accumulated   float64
	Starting      float64
	Maximum       float64
	HasFloor      bool
	HasMaximum    bool
	HasStarting   bool
}

func (it *Interpreter) GetBasketStatus(name string) (BasketStatus, error) {
	b, ok := it.tables.baskets[name]
	if !ok {
		return BasketStatus{}, unknownSymbol("basket", name)
	}
	kind, err := it.basketKind(name)
	if err != nil {
		return BasketStatus{}, err
	}
	capacity, err := it.basketCapacity(name)
	if err != nil {
		return BasketStatus{}, err
	}
	used := it.state.basketUtilization[name]
	available := capacity - used
	if available < 0 {
		available = 0
	}

	status := BasketStatus{Name: name, BasketType: kind, Capacity: capacity, Used: used, Available: available}
	if b.Capacity != nil {
		status.BaseCapacity, _ = it.Eval(b.Capacity)
	}
	if b.Floor != nil {
		status.HasFloor = true
		status.Floor, _ = it.Eval(b.Floor)
	}
	if b.Maximum != nil {
		status.HasMaximum = true
		status.Maximum, _ = it.Eval(b.Maximum)
	}
	if b.Starting != nil {
		status.HasStarting = true
		status.Starting, _ = it.Eval(b.Starting)
	}
	status.Accumulated = it.state.basketAccumulation[name]
	return status, nil
}

// UseBasket debits amount against a basket's available capacity,
// spec §4.G / invariant 1. It never mutates state when it returns an
// error.
func (it *Interpreter) UseBasket(name string, amount float64, description string, timestamp string) error {
	status, err := it.GetBasketStatus(name)
	if err != nil {
		return err
	}
	if amount > status.Available {
		return &InsufficientCapacityError{Basket: name, Requested: amount, Available: status.Available}
	}
	it.state.basketUtilization[name] += amount
	it.state.basketLedger = append(it.state.basketLedger, BasketLedgerEntry{
		Timestamp: timestamp, Basket: name, Amount: amount, Description: description, EntryType: "usage",
	})
	return nil
}

// AccumulateBuilderBasket evaluates buildsFrom and adds the result to
// the basket's accumulation, clamped by maximum-starting when set,
// spec §4.G / invariant 2.
func (it *Interpreter) AccumulateBuilderBasket(name string, description string, timestamp string) error {
	b, ok := it.tables.baskets[name]
	if !ok {
		return unknownSymbol("basket", name)
	}
	if b.BuildsFrom == nil {
		return unknownSymbol("builder basket", name)
	}
	amount, err := it.Eval(b.BuildsFrom)
	if err != nil {
		return err
	}

	accumulated := it.state.basketAccumulation[name] + amount
	if b.Maximum != nil {
		max, err := it.Eval(b.Maximum)
		if err != nil {
			return err
		}
		starting := 0.0
		if b.Starting != nil {
			starting, err = it.Eval(b.Starting)
			if err != nil {
				return err
			}
		}
		ceiling := max - starting
		if accumulated > ceiling {
			accumulated = ceiling
		}
	}
	it.state.basketAccumulation[name] = accumulated
	it.state.basketLedger = append(it.state.basketLedger, BasketLedgerEntry{
		Timestamp: timestamp, Basket: name, Amount: amount, Description: description, EntryType: "accumulation",
	})
	return nil
}
