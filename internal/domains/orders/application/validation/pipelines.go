package validation

// Create validates a new order payload.
func Create() *Pipeline {
	return New(
		RequiredString("deliverTo"),
		RequiredString("mobileNumber"),
		RequiredField("dishes"),
		DishesNotEmpty(),
		DishQuantitiesValid(),
	)
}

// Read resolves the addressed order.
func Read(finder Finder) *Pipeline {
	return New(OrderExists(finder))
}

// Update resolves the addressed order and validates the replacement payload.
func Update(finder Finder) *Pipeline {
	return Read(finder).Then(
		RequiredString("deliverTo"),
		RequiredString("mobileNumber"),
		RequiredString("status"),
		RequiredField("dishes"),
		StatusValid(),
		DishesNotEmpty(),
		DishQuantitiesValid(),
		IDMatchesRoute(),
	)
}

// Delete resolves the addressed order and applies the pending-only guard.
func Delete(finder Finder) *Pipeline {
	return Read(finder).Then(Deletable())
}
